package migrations

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	pg, err := fs.Glob(PostgresFS, "postgres/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"postgres/001_transactions.sql", "postgres/002_score_runs.sql"}, pg)

	ch, err := fs.Glob(ClickhouseFS, "clickhouse/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"clickhouse/001_wallet_features.sql", "clickhouse/002_wallet_scores.sql"}, ch)
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"pg/002_b.sql":   {Data: []byte("CREATE TABLE b ();")},
		"pg/001_a.sql":   {Data: []byte("CREATE TABLE a ();")},
		"pg/003_c.sql":   {Data: []byte("  \n")},
		"pg/README.md":   {Data: []byte("docs")},
		"pg/sub/004.sql": {Data: []byte("CREATE TABLE d ();")},
	}

	got, err := load(fsys, "pg")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001_a", got[0].Version)
	assert.Equal(t, "002_b", got[1].Version)
	assert.Equal(t, "CREATE TABLE b ();", got[1].SQL)

	_, err = load(fsys, "missing")
	assert.Error(t, err)
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: "001"}, {Version: "002"}, {Version: "003"}}

	got := pending(all, map[string]bool{"001": true, "003": true})
	require.Len(t, got, 1)
	assert.Equal(t, "002", got[0].Version)

	assert.Len(t, pending(all, nil), 3)
	assert.Empty(t, pending(all, map[string]bool{"001": true, "002": true, "003": true}))
}

func TestClickhouseMigrationsSplitCleanly(t *testing.T) {
	all, err := load(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for _, m := range all {
		assert.NoError(t, validateNoSemicolonInStrings(m.SQL), m.Version)
		stmts := splitStatements(m.SQL)
		assert.Len(t, stmts, 1, m.Version)
		assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS", m.Version)
	}
}

func TestSplitStatements(t *testing.T) {
	sql := `
-- header comment
CREATE TABLE a (x UInt8) ENGINE = Memory;

-- second
CREATE TABLE b (y UInt8) ENGINE = Memory;
`
	stmts := splitStatements(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x UInt8) ENGINE = Memory", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y UInt8) ENGINE = Memory", stmts[1])
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'it''s'; SELECT 1;"))
	assert.NoError(t, validateNoSemicolonInStrings("SELECT ''; SELECT 2;"))
	assert.ErrorIs(t, validateNoSemicolonInStrings("SELECT 'a;b'"), errSemicolonInString)
}
