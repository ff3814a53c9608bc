package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestReferencePatterns_Format(t *testing.T) {
	day := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "TXN-20261014-0001", domain.TransactionReferencePattern(day).Format(1))
	assert.Equal(t, "CMD-BUS-0042", domain.OrderReferencePattern().Format(42))
	assert.Equal(t, "EXP-PARCEL-20261014-0007", domain.ParcelReferencePattern(day).Format(7))
	assert.Equal(t, "CLI-BOTH-003", domain.ClientCodePattern(domain.ClientBoth).Format(3))
	assert.Equal(t, "PROD-MAD-0010", domain.ProductSKUPattern("mad").Format(10))
	assert.Equal(t, "TXN-20261014-12345", domain.TransactionReferencePattern(day).Format(12345))
}

func TestReferencePattern_MaxSuffix(t *testing.T) {
	p := domain.TransactionReferencePattern(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))

	refs := []string{
		"TXN-20261014-0003",
		"TXN-20261014-0010",
		"TXN-20261013-0099", // other day
		"TXN-20261014-abcd", // not numeric
		"TXN-20261014-0002",
	}
	assert.Equal(t, 10, p.MaxSuffix(refs))
	assert.Equal(t, 0, p.MaxSuffix(nil))

	n, ok := p.Suffix("TXN-20261014-0010")
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok = p.Suffix("XTXN-20261014-0010")
	assert.False(t, ok)
}

func TestReferencePattern_SuffixRejectsSignsAndEmpty(t *testing.T) {
	p := domain.OrderReferencePattern()

	for _, ref := range []string{"CMD-BUS-", "CMD-BUS-+12", "CMD-BUS--1", "CMD-BUS-12a", "CMD-BUS-1 "} {
		_, ok := p.Suffix(ref)
		assert.False(t, ok, ref)
	}

	n, ok := p.Suffix("CMD-BUS-0100")
	assert.True(t, ok)
	assert.Equal(t, 100, n)
}

func BenchmarkReferencePattern_MaxSuffix(b *testing.B) {
	p := domain.TransactionReferencePattern(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))
	refs := make([]string, 500)
	for i := range refs {
		refs[i] = p.Format(i + 1)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if p.MaxSuffix(refs) != 500 {
			b.Fatal("unexpected max")
		}
	}
}

func TestReferencePattern_MaxSuffixDoesNotAllocate(t *testing.T) {
	p := domain.TransactionReferencePattern(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))
	refs := []string{p.Format(1), p.Format(2), "TXN-20261013-0099"}

	allocs := testing.AllocsPerRun(100, func() { p.MaxSuffix(refs) })
	assert.Zero(t, allocs)
}
