// Package parser extracts flag definitions from C preprocessor text.
package parser

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/mcncl/roguetools/internal/errors"
	"github.com/mcncl/roguetools/internal/models"
)

const (
	definePrefix = "#define"
	hexPrefix    = "0x"
)

// Options controls how lenient the parser is
type Options struct {
	// Strict rejects value tokens that are not entirely a number
	Strict bool
	// Debugf, when set, receives a note for every skipped #define line
	Debugf func(format string, args ...any)
}

func (o Options) debugf(format string, args ...any) {
	if o.Debugf != nil {
		o.Debugf(format, args...)
	}
}

// IsDefine reports whether the raw line is a macro definition candidate.
// No trimming happens first, so indented directives are ignored.
func IsDefine(line string) bool {
	return strings.HasPrefix(line, definePrefix)
}

// ParseLine parses one candidate line. ok is false when the line has fewer
// than three whitespace-separated tokens.
func ParseLine(line string, opts Options) (def models.FlagDefinition, ok bool, err error) {
	tokens := strings.Fields(line)
	if len(tokens) <= 2 {
		return models.FlagDefinition{}, false, nil
	}

	value, err := ParseValue(tokens[2], opts.Strict)
	if err != nil {
		return models.FlagDefinition{}, false, err
	}
	return models.FlagDefinition{Name: tokens[1], Value: value}, true, nil
}

// ParseValue converts a value token. Tokens starting with "0x" are read as
// hexadecimal, everything else as decimal.
//
// In lenient mode the longest numeric prefix is used and the rest of the
// token is ignored; a token without one is zero. An optional sign comes
// first and single underscores may separate digits. Strict mode requires the
// whole token to be consumed.
func ParseValue(token string, strict bool) (*big.Int, error) {
	base := 10
	if strings.HasPrefix(token, hexPrefix) {
		base = 16
	}

	s := token
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	if base == 16 && len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}

	digits, rest := scanDigits(s, base)
	if strict && (digits == "" || rest != "") {
		return nil, errors.NewParsingError(fmt.Sprintf("%q is not a valid number", token), errors.ErrInvalidValue)
	}

	value := new(big.Int)
	if digits == "" {
		return value, nil
	}
	if _, ok := value.SetString(digits, base); !ok {
		// scanDigits only returns digits valid for base
		return nil, errors.NewParsingError(fmt.Sprintf("%q is not a valid number", token), errors.ErrInvalidValue)
	}
	if negative {
		value.Neg(value)
	}
	return value, nil
}

// scanDigits returns the leading run of base digits in s with underscore
// separators removed, and the unconsumed remainder.
func scanDigits(s string, base int) (digits, rest string) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if isDigit(c, base) {
			b.WriteByte(c)
			i++
			continue
		}
		if c == '_' && b.Len() > 0 && i+1 < len(s) && isDigit(s[i+1], base) {
			i++
			continue
		}
		break
	}
	return b.String(), s[i:]
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// Parse reads every line from reader and returns the definitions in input order
func Parse(reader io.Reader, opts Options) ([]models.FlagDefinition, error) {
	br := bufio.NewReader(reader)
	var defs []models.FlagDefinition

	for lineNo := 1; ; lineNo++ {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !stderrors.Is(readErr, io.EOF) {
			return nil, errors.NewInputError(fmt.Sprintf("failed to read line %d", lineNo), readErr)
		}

		if IsDefine(line) {
			def, ok, err := ParseLine(line, opts)
			if err != nil {
				var appErr *errors.AppError
				if stderrors.As(err, &appErr) {
					appErr.Message = fmt.Sprintf("line %d: %s", lineNo, appErr.Message)
				}
				return nil, err
			}
			if ok {
				defs = append(defs, def)
			} else {
				opts.debugf("line %d: skipping %q: expected a name and a value", lineNo, strings.TrimSpace(line))
			}
		}

		if readErr != nil {
			break
		}
	}

	return defs, nil
}

// ParseString parses definitions from a string
func ParseString(text string, opts Options) ([]models.FlagDefinition, error) {
	return Parse(strings.NewReader(text), opts)
}

// ParseFile parses definitions from a file path
func ParseFile(filePath string, opts Options) ([]models.FlagDefinition, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	return Parse(file, opts)
}
