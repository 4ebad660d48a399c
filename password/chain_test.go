package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testChain(t *testing.T) *Chain {
	t.Helper()
	argon := lightArgon2(t)
	bc, err := NewBcrypt(bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("NewBcrypt failed: %v", err)
	}
	return NewChain(argon, bc)
}

func TestChainHashesWithPrimary(t *testing.T) {
	chain := testChain(t)

	encoded, err := chain.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("primary did not produce the hash: %q", encoded)
	}
	if chain.Algorithm() != "argon2id" {
		t.Fatalf("Algorithm = %q", chain.Algorithm())
	}
}

func TestChainVerifiesLegacyMember(t *testing.T) {
	chain := testChain(t)

	legacy, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}

	if !chain.Verify("pw", string(legacy)) {
		t.Fatal("legacy bcrypt hash did not verify")
	}
	if chain.Verify("other", string(legacy)) {
		t.Fatal("wrong password verified")
	}
}

func TestChainVerifyToleratesGarbage(t *testing.T) {
	chain := testChain(t)

	for _, encoded := range []string{
		"",
		"plaintext-left-in-column",
		"$md5$whatever",
		"$argon2id$corrupt",
		"$2x$totally-bogus",
	} {
		if chain.Verify("pw", encoded) {
			t.Fatalf("garbage %q verified", encoded)
		}
	}
}

func TestChainNeedsUpgrade(t *testing.T) {
	chain := testChain(t)

	primary, err := chain.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if chain.NeedsUpgrade(primary) {
		t.Fatal("fresh primary hash flagged for upgrade")
	}

	legacy, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	if !chain.NeedsUpgrade(string(legacy)) {
		t.Fatal("non-primary hash not flagged for upgrade")
	}

	if !chain.NeedsUpgrade("$md5$whatever") {
		t.Fatal("unrecognized hash not flagged for upgrade")
	}
}

func TestChainPrimarySelection(t *testing.T) {
	argon := lightArgon2(t)
	bc, err := NewBcrypt(bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("NewBcrypt failed: %v", err)
	}
	chain := NewChain(bc, argon)

	encoded, err := chain.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$2") {
		t.Fatalf("bcrypt primary did not produce the hash: %q", encoded)
	}

	argonHash, err := argon.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !chain.Verify("pw", argonHash) {
		t.Fatal("argon2 hash did not verify under bcrypt-primary chain")
	}
	if !chain.NeedsUpgrade(argonHash) {
		t.Fatal("argon2 hash not flagged under bcrypt-primary chain")
	}
}
