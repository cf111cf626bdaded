package domain

import (
	"errors"
	"fmt"
)

var (
	ErrChartDuplicateCode = errors.New("duplicate account code")
	ErrChartUnknownParent = errors.New("unknown parent account")
	ErrChartCycle         = errors.New("account hierarchy contains a cycle")
)

// Chart is an arena of accounts indexed by code. The parent relation is
// validated acyclic when accounts are added, so lookups never re-check it.
type Chart struct {
	accounts []Account
	byCode   map[string]int
	parent   map[string]string
}

// NewChart returns an empty chart.
func NewChart() *Chart {
	return &Chart{
		byCode: make(map[string]int),
		parent: make(map[string]string),
	}
}

// Add validates and appends an account. parentCode may be empty for a root.
func (c *Chart) Add(acc Account, parentCode string) error {
	if acc.Code == "" {
		return fmt.Errorf("account code is required")
	}
	if _, exists := c.byCode[acc.Code]; exists {
		return fmt.Errorf("%w: %s", ErrChartDuplicateCode, acc.Code)
	}
	if err := acc.ValidateCapabilities(); err != nil {
		return err
	}
	if parentCode != "" {
		if parentCode == acc.Code {
			return fmt.Errorf("%w: %s is its own parent", ErrChartCycle, acc.Code)
		}
		if _, ok := c.byCode[parentCode]; !ok {
			return fmt.Errorf("%w: %s (parent of %s)", ErrChartUnknownParent, parentCode, acc.Code)
		}
	}
	c.byCode[acc.Code] = len(c.accounts)
	c.accounts = append(c.accounts, acc)
	if parentCode != "" {
		c.parent[acc.Code] = parentCode
	}
	return nil
}

// Reparent moves an existing account under a new parent, rejecting moves that would close a cycle.
func (c *Chart) Reparent(code, parentCode string) error {
	if _, ok := c.byCode[code]; !ok {
		return fmt.Errorf("unknown account %s", code)
	}
	if parentCode == "" {
		delete(c.parent, code)
		return nil
	}
	if _, ok := c.byCode[parentCode]; !ok {
		return fmt.Errorf("%w: %s", ErrChartUnknownParent, parentCode)
	}
	for cur := parentCode; cur != ""; cur = c.parent[cur] {
		if cur == code {
			return fmt.Errorf("%w: %s under %s", ErrChartCycle, code, parentCode)
		}
	}
	c.parent[code] = parentCode
	return nil
}

// Get returns the account with the given code.
func (c *Chart) Get(code string) (Account, bool) {
	idx, ok := c.byCode[code]
	if !ok {
		return Account{}, false
	}
	return c.accounts[idx], true
}

// ParentCode returns the parent code of an account, or "" for roots.
func (c *Chart) ParentCode(code string) string {
	return c.parent[code]
}

// Path returns the codes from the root down to code.
func (c *Chart) Path(code string) []string {
	var path []string
	for cur := code; cur != ""; cur = c.parent[cur] {
		path = append([]string{cur}, path...)
	}
	return path
}

// Accounts returns the accounts in insertion order, which is always parent-first.
func (c *Chart) Accounts() []Account {
	out := make([]Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Len returns the number of accounts.
func (c *Chart) Len() int { return len(c.accounts) }
