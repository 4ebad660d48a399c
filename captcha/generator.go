// Package captcha renders short random alphanumeric codes as distorted
// PNG images. It only generates; binding a code to a correlation id with a
// TTL is the store's job, and throttling challenge creation belongs to the
// caller's middleware.
package captcha

import (
	"bytes"
	"errors"

	"github.com/mojocn/base64Captcha"
)

const (
	// MinLength and MaxLength bound the configurable code length.
	MinLength = 4
	MaxLength = 8

	// Ambiguous glyphs (0/O, 1/l/I) are excluded so users are not asked
	// to distinguish them in a distorted rendering.
	codeSource = "2345678abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"
)

// Config controls rendering. Zero NoiseCount draws a clean image.
type Config struct {
	Length     int
	Width      int
	Height     int
	NoiseCount int
}

// Generator produces (code, image) pairs. Safe for concurrent use; the
// underlying driver is stateless after construction.
type Generator struct {
	driver *base64Captcha.DriverString
}

// NewGenerator builds a string-driver generator with the embedded fonts.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Length < MinLength || cfg.Length > MaxLength {
		return nil, errors.New("captcha length out of range")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("captcha dimensions must be positive")
	}

	driver := base64Captcha.NewDriverString(
		cfg.Height,
		cfg.Width,
		cfg.NoiseCount,
		base64Captcha.OptionShowHollowLine,
		cfg.Length,
		codeSource,
		nil,
		nil,
		[]string{"wqy-microhei.ttc"},
	).ConvertFonts()

	return &Generator{driver: driver}, nil
}

// Generate returns a fresh plaintext code and its PNG rendering. The code
// must reach the store and nothing else; it is never logged.
func (g *Generator) Generate() (code string, image []byte, err error) {
	_, content, answer := g.driver.GenerateIdQuestionAnswer()

	item, err := g.driver.DrawCaptcha(content)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if _, err := item.WriteTo(&buf); err != nil {
		return "", nil, err
	}
	return answer, buf.Bytes(), nil
}
