package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataDir(t *testing.T, transactions, sellers, cookies string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TransactionsFile), []byte(transactions), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SellersFile), []byte(sellers), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CookiesFile), []byte(cookies), 0644))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeDataDir(t,
		`[{"id": 34, "date": "2024-01-15", "type": "T2G", "from": 3, "to": null, "cookies": {"ABC": -5}, "order_num": "da103"}]`,
		`[{"id": 3, "first_name": "Jane", "last_name": "Doe"}]`,
		`[{"id": 1, "name": "Adventurefuls", "abbreviation": "ABC"}]`,
	)

	bundle, err := Load(dir)
	require.NoError(t, err)

	require.Len(t, bundle.Transactions, 1)
	tx := bundle.Transactions[0]
	assert.Equal(t, int64(34), tx.ID)
	require.NotNil(t, tx.From)
	assert.Equal(t, int64(3), *tx.From)
	assert.Nil(t, tx.To)
	assert.Equal(t, -5, tx.Cookies["ABC"])
	assert.Equal(t, "da103", tx.OrderNumber)

	require.Len(t, bundle.Sellers, 1)
	assert.Equal(t, "Jane Doe", bundle.Sellers[0].FullName())

	assert.Equal(t, []string{"ABC"}, bundle.Abbreviations())
}

func TestLoadRejectsEmptyCookieList(t *testing.T) {
	dir := writeDataDir(t, `[]`, `[]`, `[]`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cookie reference list is empty")
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TransactionsFile), []byte(`[]`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sellers")
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := writeDataDir(t, `not json`, `[]`, `[]`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transactions")
}
