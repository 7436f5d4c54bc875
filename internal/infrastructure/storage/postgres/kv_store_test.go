package postgres

import (
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_GetSQL(t *testing.T) {
	sql, args, err := getQuery("purchases").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT value FROM kv_store WHERE key = $1", sql)
	assert.Equal(t, []any{"purchases"}, args)
}

func TestKVStore_PutSQL(t *testing.T) {
	now := time.Date(2024, time.February, 23, 0, 0, 0, 0, time.UTC)
	value := []byte(`[{"orderNumber":"230200"}]`)

	sql, args, err := putQuery("purchases", value, now).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO kv_store (key,value,encoding,updated_at) VALUES ($1,$2,$3,$4) "+
		"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, encoding = EXCLUDED.encoding, updated_at = EXCLUDED.updated_at", sql)
	assert.Equal(t, []any{"purchases", value, "json", now}, args)
}

func TestKVStore_PutMarksCompressedValues(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	value := enc.EncodeAll([]byte(`[]`), nil)

	_, args, err := putQuery("suppliers", value, time.Now()).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "zstd", args[2])
}

func TestKVStore_DeleteSQL(t *testing.T) {
	sql, args, err := deleteQuery("lastInvoiceDate").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM kv_store WHERE key = $1", sql)
	assert.Equal(t, []any{"lastInvoiceDate"}, args)
}

func TestKVStore_KeysSQL(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "all keys",
			prefix:  "",
			wantSQL: "SELECT key FROM kv_store ORDER BY key",
		},
		{
			name:     "prefix",
			prefix:   "invoiceCounter",
			wantSQL:  `SELECT key FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key`,
			wantArgs: []any{"invoiceCounter%"},
		},
		{
			name:     "wildcards escaped",
			prefix:   "invoice_counter_",
			wantSQL:  `SELECT key FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key`,
			wantArgs: []any{`invoice\_counter\_%`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := keysQuery(tt.prefix).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}
