// Package summary derives a human-readable view from Fava's income
// statement JSON. Fava does not guarantee schema stability, so every lookup
// is heuristic: each logical field has an ordered list of candidate keys,
// tried until one yields a usable value. Nothing in this package returns an
// error; shapes we don't recognise degrade to nil totals and empty lists.
package summary

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/favalens/internal/models"
)

const topN = 5

// Key candidates per logical field, in priority order.
var (
	netKeysNested   = []string{"net", "profit", "net_profit"}
	netKeysTopLevel = []string{"net_profit", "net", "profit"}
	nameKeys        = []string{"name", "label", "account", "title"}
	valueKeys       = []string{"balance", "amount", "value", "total"}
	childKeys       = []string{"children", "accounts", "items"}
	rootKeys        = []string{"children", "accounts", "items", "tree", "data"}
)

// Summarize builds a Summary from a raw income statement document.
// It is total: any input, including nil or non-object JSON, yields a Summary.
func Summarize(raw any) models.Summary {
	s := models.Summary{
		TopIncome:   []models.CategoryEntry{},
		TopExpenses: []models.CategoryEntry{},
		Notes: []string{
			"Income is money in; expenses are money out (often negative).",
			"Net Profit ≈ Income + Expenses (if expenses are negative, they reduce profit).",
			"Numbers are best-effort parsed; Fava's API may change between versions.",
		},
	}

	data, _ := raw.(map[string]any)

	s.Totals = deriveTotals(data)

	var cats []models.CategoryEntry
	for _, key := range rootKeys {
		if node, ok := data[key]; ok {
			collectCategories(node, &cats)
		}
	}
	s.TopIncome, s.TopExpenses = rank(cats)

	return s
}

// deriveTotals resolves income, expenses and net profit. Each field is only
// filled while still unknown; an explicit upstream value always wins over
// the derived income+expenses sum.
func deriveTotals(data map[string]any) models.Totals {
	var t models.Totals

	if totals, ok := data["totals"].(map[string]any); ok {
		t.Income = firstNum(totals, "income")
		t.Expenses = firstNum(totals, "expenses")
		t.NetProfit = firstNum(totals, netKeysNested...)
	}

	if t.Income == nil {
		t.Income = firstNum(data, "income")
	}
	if t.Expenses == nil {
		t.Expenses = firstNum(data, "expenses")
	}
	if t.NetProfit == nil {
		t.NetProfit = firstNum(data, netKeysTopLevel...)
	}

	// Expenses are conventionally signed negative, so the sum reduces profit.
	if t.NetProfit == nil && t.Income != nil && t.Expenses != nil {
		t.NetProfit = models.Float(*t.Income + *t.Expenses)
	}

	return t
}

// firstNum evaluates candidate keys in order and returns the first that
// coerces to a known number. Works on a nil map.
func firstNum(m map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		if f, known := Num(v); known {
			return models.Float(f)
		}
	}
	return nil
}

// collectCategories walks a node tree in pre-order, appending an entry for
// every node that resolves both a name and a value. Recursion follows the
// first present child collection; unrecognised node types are dead ends.
func collectCategories(node any, acc *[]models.CategoryEntry) {
	switch n := node.(type) {
	case map[string]any:
		name, hasName := nodeName(n)
		value, hasValue := nodeValue(n)
		if hasName && hasValue {
			*acc = append(*acc, models.CategoryEntry{Name: name, Value: value})
		}
		for _, key := range childKeys {
			child, ok := n[key]
			if !ok {
				continue
			}
			switch c := child.(type) {
			case []any:
				for _, elem := range c {
					collectCategories(elem, acc)
				}
			case map[string]any:
				collectCategories(c, acc)
			}
			break
		}
	case []any:
		for _, elem := range n {
			collectCategories(elem, acc)
		}
	}
}

// nodeName returns the first present non-null name candidate, stringified.
func nodeName(n map[string]any) (string, bool) {
	for _, key := range nameKeys {
		if v, ok := n[key]; ok && v != nil {
			if s, isStr := v.(string); isStr {
				return s, true
			}
			return fmt.Sprintf("%v", v), true
		}
	}
	return "", false
}

// nodeValue coerces the first present value candidate. A present key that
// fails coercion is final: the node yields no entry rather than shopping
// for a later candidate.
func nodeValue(n map[string]any) (float64, bool) {
	for _, key := range valueKeys {
		if v, ok := n[key]; ok {
			return Num(v)
		}
	}
	return 0, false
}

// rank splits categories into top income (positive, descending by value)
// and top expenses (negative, descending by magnitude), truncated to five
// each. Stable sorts keep first-encountered order on ties.
func rank(cats []models.CategoryEntry) (income, expenses []models.CategoryEntry) {
	income = []models.CategoryEntry{}
	expenses = []models.CategoryEntry{}

	for _, c := range cats {
		switch {
		case c.Value > 0:
			income = append(income, c)
		case c.Value < 0:
			expenses = append(expenses, c)
		}
	}

	sort.SliceStable(income, func(i, j int) bool {
		return income[i].Value > income[j].Value
	})
	sort.SliceStable(expenses, func(i, j int) bool {
		return -expenses[i].Value > -expenses[j].Value
	})

	if len(income) > topN {
		income = income[:topN]
	}
	if len(expenses) > topN {
		expenses = expenses[:topN]
	}

	return income, expenses
}
