package models

import (
	"errors"
	"fmt"
	"strings"
)

// Bank is a supported bank identifier, always lowercase.
type Bank string

const (
	BB        Bank = "bb"
	Caixa     Bank = "caixa"
	Santander Bank = "santander"
	Itau      Bank = "itau"
	Sicredi   Bank = "sicredi"
	BNB       Bank = "bnb"
	Unicred   Bank = "unicred"
	Bradesco  Bank = "bradesco"
)

// SupportedBanks lists every bank the pipeline can process.
var SupportedBanks = []Bank{BB, Caixa, Santander, Itau, Sicredi, BNB, Unicred, Bradesco}

// ErrUnsupportedBank is matched by UnsupportedBankError.
var ErrUnsupportedBank = errors.New("unsupported bank")

// UnsupportedBankError is returned for identifiers outside SupportedBanks.
type UnsupportedBankError struct {
	ID string
}

func (e *UnsupportedBankError) Error() string {
	return fmt.Sprintf("unsupported bank %q, supported banks: %s", e.ID, SupportedList())
}

func (e *UnsupportedBankError) Is(target error) bool {
	return target == ErrUnsupportedBank
}

// ParseBank resolves an identifier case-insensitively.
func ParseBank(id string) (Bank, error) {
	b := Bank(strings.ToLower(strings.TrimSpace(id)))
	for _, s := range SupportedBanks {
		if s == b {
			return b, nil
		}
	}
	return "", &UnsupportedBankError{ID: id}
}

// Upper returns the identifier as shown in reports and directory names.
func (b Bank) Upper() string {
	return strings.ToUpper(string(b))
}

// SupportedList returns the identifiers joined by commas.
func SupportedList() string {
	ids := make([]string, len(SupportedBanks))
	for i, b := range SupportedBanks {
		ids[i] = string(b)
	}
	return strings.Join(ids, ", ")
}
