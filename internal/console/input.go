package console

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// Bounds returns the inclusive range accepted for a prompt whose maximum is
// limit: the value must have as many digits as limit. A limit of 9999
// accepts 1000..9999; a limit of 9 accepts 1..9.
func Bounds(limit int) (lo, hi int) {
	return limit/10 + 1, limit
}

var digitWords = []string{"", "single-digit", "two-digit", "three-digit", "four-digit", "five-digit"}

// ReadInteger prompts until the input is an integer within Bounds(limit).
func (c *Console) ReadInteger(ctx context.Context, prompt string, limit int) (int, error) {
	lo, hi := Bounds(limit)
	for {
		s, err := c.ReadLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(s))
		if convErr == nil && n >= lo && n <= hi {
			return n, nil
		}

		digits := len(strconv.Itoa(limit))
		if digits < len(digitWords) {
			c.Printf(" %s must be a %s integer from %d to %d. Enter %s again.\n", prompt, digitWords[digits], lo, hi, prompt)
		} else {
			c.Printf(" %s must be an integer. Enter %s again.\n", prompt, prompt)
		}
	}
}

// ReadID reads an identifier or PIN bounded by limit.
func (c *Console) ReadID(ctx context.Context, prompt string, limit uint16) (uint16, error) {
	n, err := c.ReadInteger(ctx, prompt, int(limit))
	return uint16(n), err
}

// ReadChoice reads a single-digit menu choice and re-asks until it is 1..n.
func (c *Console) ReadChoice(ctx context.Context, prompt string, n int) (int, error) {
	for {
		choice, err := c.ReadInteger(ctx, prompt, 9)
		if err != nil {
			return 0, err
		}
		if choice >= 1 && choice <= n {
			c.Printf("\n")
			return choice, nil
		}
		c.Printf(" Choice must be between 1 and %d. Choose again.\n\n", n)
	}
}

// ReadAmount prompts until the input is a finite positive real number.
func (c *Console) ReadAmount(ctx context.Context, prompt string) (float64, error) {
	for {
		s, err := c.ReadLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		v, convErr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if convErr == nil && v > 0 && !math.IsInf(v, 0) {
			return v, nil
		}
		c.Printf(" %s must be a positive real number. Enter %s again.\n", prompt, prompt)
	}
}
