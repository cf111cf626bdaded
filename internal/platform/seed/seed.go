// Package seed loads reference data (currencies, chart of accounts,
// operation types, users and parties) from a YAML file.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	"gopkg.in/yaml.v3"
)

//go:embed chart.yaml
var defaultChart []byte

// File is the layout of a seed file.
type File struct {
	Currencies []domain.Currency `yaml:"currencies"`
	Accounts   []AccountSpec     `yaml:"accounts"`
	// OperationTypes defaults to domain.DefaultOperationTypes when empty.
	OperationTypes []domain.OperationType `yaml:"operation_types,omitempty"`
	Users          []UserSpec             `yaml:"users,omitempty"`
	Parties        []PartySpec            `yaml:"parties,omitempty"`
}

// AccountSpec is one chart entry.
type AccountSpec struct {
	Code     string              `yaml:"code"`
	Name     string              `yaml:"name"`
	Type     domain.AccountType  `yaml:"type"`
	Currency string              `yaml:"currency"`
	Parent   string              `yaml:"parent,omitempty"`
	Inactive bool                `yaml:"inactive,omitempty"`
	Flags    domain.AccountFlags `yaml:"flags,omitempty"`
}

// UserSpec is a user allowed to record operations.
type UserSpec struct {
	ID    int64  `yaml:"id"`
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

// PartySpec is a counterparty.
type PartySpec struct {
	Name string           `yaml:"name"`
	Type domain.PartyType `yaml:"type"`
}

// Result summarises what Apply wrote.
type Result struct {
	Currencies     int
	Accounts       int
	OperationTypes int
	Users          int
	Parties        int
}

// Default returns the built-in seed file.
func Default() (*File, error) {
	return Parse(defaultChart)
}

// Load reads a seed file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a seed file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	if len(f.OperationTypes) == 0 {
		f.OperationTypes = domain.DefaultOperationTypes()
	}
	if _, err := f.Chart(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Chart builds the account hierarchy, validating codes, currencies,
// capability flags and parent links.
func (f *File) Chart() (*domain.Chart, error) {
	currencies := make(map[string]bool, len(f.Currencies))
	for _, c := range f.Currencies {
		if len(c.CurrencyCode) != 3 {
			return nil, fmt.Errorf("currency %q: code must have 3 letters", c.CurrencyCode)
		}
		currencies[c.CurrencyCode] = true
	}

	chart := domain.NewChart()
	for _, spec := range f.Accounts {
		if !currencies[spec.Currency] {
			return nil, fmt.Errorf("account %s: unknown currency %q", spec.Code, spec.Currency)
		}
		acc := domain.Account{
			Code:         spec.Code,
			Name:         spec.Name,
			AccountType:  spec.Type,
			CurrencyCode: spec.Currency,
			IsActive:     !spec.Inactive,
			Flags:        spec.Flags,
		}
		if err := chart.Add(acc, spec.Parent); err != nil {
			return nil, fmt.Errorf("account %s: %w", spec.Code, err)
		}
	}
	return chart, nil
}

// Apply writes the seed through the registry writer. Accounts are written
// parent-first so each child can reference its parent's id.
func Apply(ctx context.Context, w portsrepo.RegistryWriter, f *File) (*Result, error) {
	chart, err := f.Chart()
	if err != nil {
		return nil, err
	}
	res := &Result{}

	for _, c := range f.Currencies {
		if err := w.SaveCurrency(ctx, c); err != nil {
			return nil, fmt.Errorf("saving currency %s: %w", c.CurrencyCode, err)
		}
		res.Currencies++
	}
	for _, t := range f.OperationTypes {
		if err := w.SaveOperationType(ctx, t); err != nil {
			return nil, fmt.Errorf("saving operation type %s: %w", t.Code, err)
		}
		res.OperationTypes++
	}

	ids := make(map[string]int64, chart.Len())
	for _, acc := range chart.Accounts() {
		if parent := chart.ParentCode(acc.Code); parent != "" {
			parentID := ids[parent]
			acc.ParentAccountID = &parentID
		}
		if err := w.SaveAccount(ctx, &acc); err != nil {
			return nil, fmt.Errorf("saving account %s: %w", acc.Code, err)
		}
		ids[acc.Code] = acc.AccountID
		res.Accounts++
	}

	for _, u := range f.Users {
		user := domain.User{UserID: u.ID, Email: u.Email, Name: u.Name}
		if err := w.SaveUser(ctx, &user); err != nil {
			return nil, fmt.Errorf("saving user %s: %w", u.Email, err)
		}
		res.Users++
	}
	for _, p := range f.Parties {
		party := domain.Party{Name: p.Name, PartyType: p.Type}
		if err := w.SaveParty(ctx, &party); err != nil {
			return nil, fmt.Errorf("saving party %s: %w", p.Name, err)
		}
		res.Parties++
	}
	return res, nil
}
