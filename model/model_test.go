package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wacul/ptr"
)

func TestGenerateUUIDWithPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix("ltx")
	assert.Contains(t, id, "ltx_")
	assert.NotEqual(t, id, GenerateUUIDWithPrefix("ltx"))
}

func TestCopyMetadata(t *testing.T) {
	original := map[string]string{"foo": "bar"}
	copied := CopyMetadata(original)
	copied["foo"] = "changed"
	assert.Equal(t, "bar", original["foo"])

	assert.NotNil(t, CopyMetadata(nil))
}

func TestMergeMetadata(t *testing.T) {
	existing := map[string]string{"keep": "1", "override": "2", "remove": "3"}
	merged := MergeMetadata(existing, map[string]*string{
		"override": ptr.String("changed"),
		"remove":   nil,
		"added":    ptr.String("4"),
	})

	assert.Equal(t, map[string]string{"keep": "1", "override": "changed", "added": "4"}, merged)
	// the input map is untouched
	assert.Equal(t, "3", existing["remove"])
}

func TestMatchesMetadataIsSubsetMatch(t *testing.T) {
	transaction := LedgerTransaction{MetaData: map[string]string{"foo": "bar", "baz": "qux"}}

	assert.True(t, transaction.MatchesMetadata(map[string]string{"foo": "bar"}))
	assert.True(t, transaction.MatchesMetadata(nil))
	assert.False(t, transaction.MatchesMetadata(map[string]string{"foo": "other"}))

	// the relation is asymmetric: a query with more keys than the
	// transaction carries never matches
	smaller := LedgerTransaction{MetaData: map[string]string{"foo": "bar"}}
	assert.False(t, smaller.MatchesMetadata(map[string]string{"foo": "bar", "baz": "qux"}))
}

func TestTransactionClone(t *testing.T) {
	postedAt := time.Now()
	transaction := LedgerTransaction{
		TransactionID: "ltx_1",
		Status:        StatusPosted,
		MetaData:      map[string]string{"foo": "bar"},
		Entries:       []LedgerEntry{{EntryID: "len_1", Amount: 10, Direction: DirectionCredit}},
		PostedAt:      &postedAt,
	}

	cloned := transaction.Clone()
	cloned.MetaData["foo"] = "changed"
	cloned.Entries[0].Amount = 99
	*cloned.PostedAt = postedAt.Add(time.Hour)

	assert.Equal(t, "bar", transaction.MetaData["foo"])
	assert.Equal(t, int64(10), transaction.Entries[0].Amount)
	assert.Equal(t, postedAt, *transaction.PostedAt)
}

func TestTransactionCloneCopiesLockVersions(t *testing.T) {
	asserted := int64(3)
	transaction := LedgerTransaction{
		Entries: []LedgerEntry{{EntryID: "len_1", Direction: DirectionCredit, LockVersion: &asserted}},
	}

	cloned := transaction.Clone()
	*cloned.Entries[0].LockVersion = 99

	assert.Equal(t, int64(3), *transaction.Entries[0].LockVersion)
}

func TestEntryForAccount(t *testing.T) {
	transaction := LedgerTransaction{
		Entries: []LedgerEntry{
			{EntryID: "len_1", LedgerAccountID: "acc_1"},
			{EntryID: "len_2", LedgerAccountID: "acc_2"},
		},
	}

	entry := transaction.EntryForAccount("acc_2")
	assert.NotNil(t, entry)
	assert.Equal(t, "len_2", entry.EntryID)
	assert.Nil(t, transaction.EntryForAccount("acc_3"))
}
