// Package selection turns a parsed entry into the list of items offered to
// the interactive selector and resolves a chosen item back into the concrete
// payload to deliver.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/passpick/passpick/internal/entry"
)

// Labels of the two synthesized items. Field items use their key as label.
const (
	PasswordLabel = "password"
	OTPLabel      = "otp"
)

// Source indicates how an item's payload is obtained.
type Source int

const (
	SourcePassword Source = iota
	SourceField
	SourceOTP
)

// Item is one option presented to the user. FieldIndex is only meaningful
// for SourceField and indexes into the entry's field list.
type Item struct {
	Label      string
	Source     Source
	FieldIndex int
}

// PayloadKind distinguishes payload origins so delivery can reason about
// embedded newlines.
type PayloadKind int

const (
	KindPassword PayloadKind = iota
	KindPlainField
	KindMultilineField
	KindOTP
)

// Payload is the resolved text to deliver.
type Payload struct {
	Text string
	Kind PayloadKind
}

// OTPGenerator produces a one-time code for the entry a resolver is
// working on. Implementations live in the otp package.
type OTPGenerator interface {
	Generate(ctx context.Context) (string, error)
}

var (
	// ErrStaleItem means an item's field index no longer matches the entry.
	ErrStaleItem = errors.New("selectable item no longer matches the entry")
	// ErrOTPGeneration wraps failures of the OTP collaborator.
	ErrOTPGeneration = errors.New("otp generation failed")
)

// BuildItems lists everything selectable for an entry, in order: the
// password first, then every field in parse order, then "otp" when
// available. Duplicate field keys stay independently selectable.
func BuildItems(e entry.Entry, otpAvailable bool) []Item {
	items := make([]Item, 0, len(e.Fields)+2)
	items = append(items, Item{Label: PasswordLabel, Source: SourcePassword})
	for i, f := range e.Fields {
		items = append(items, Item{Label: f.Key, Source: SourceField, FieldIndex: i})
	}
	if otpAvailable {
		items = append(items, Item{Label: OTPLabel, Source: SourceOTP})
	}
	return items
}

// Labels projects items to the strings handed to the selector.
func Labels(items []Item) []string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	return labels
}

// FindItem maps a selector's chosen label back to an item. With duplicate
// labels the first occurrence wins, matching what label-based selectors
// can express.
func FindItem(items []Item, label string) (Item, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
	}
	return Item{}, false
}

// Resolve maps a chosen item to its payload. Password items always succeed,
// even with an empty password. OTP items invoke the generator; its failure
// aborts the invocation before any delivery is attempted.
func Resolve(ctx context.Context, e entry.Entry, chosen Item, gen OTPGenerator) (Payload, error) {
	switch chosen.Source {
	case SourcePassword:
		return Payload{Text: e.Password, Kind: KindPassword}, nil

	case SourceField:
		if chosen.FieldIndex < 0 || chosen.FieldIndex >= len(e.Fields) {
			return Payload{}, fmt.Errorf("field index %d out of range (%d fields): %w",
				chosen.FieldIndex, len(e.Fields), ErrStaleItem)
		}
		value := e.Fields[chosen.FieldIndex].Value
		kind := KindPlainField
		if strings.Contains(value, "\n") {
			kind = KindMultilineField
		}
		return Payload{Text: value, Kind: kind}, nil

	case SourceOTP:
		if gen == nil {
			return Payload{}, fmt.Errorf("no generator configured: %w", ErrOTPGeneration)
		}
		code, err := gen.Generate(ctx)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrOTPGeneration, err)
		}
		return Payload{Text: code, Kind: KindOTP}, nil

	default:
		return Payload{}, fmt.Errorf("unknown item source %d: %w", chosen.Source, ErrStaleItem)
	}
}
