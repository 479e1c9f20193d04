package postgres

// schemaStatements create the graph tables. Each is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sectors (
		key        TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		ticker       TEXT PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT '',
		props        JSONB NOT NULL DEFAULT '{}'::jsonb,
		props_source TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS asset_sectors (
		ticker     TEXT PRIMARY KEY REFERENCES assets (ticker) ON DELETE CASCADE,
		sector_key TEXT NOT NULL REFERENCES sectors (key),
		linked_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS asset_sectors_sector_key_idx ON asset_sectors (sector_key)`,
}

const upsertAssetSQL = `
	INSERT INTO assets (ticker, name, props, props_source, created_at, updated_at)
	VALUES ($1, $2, $3::jsonb, $4, $5, $5)
	ON CONFLICT (ticker) DO UPDATE SET
		name = CASE WHEN assets.name = '' THEN EXCLUDED.name ELSE assets.name END,
		props = assets.props || EXCLUDED.props,
		props_source = EXCLUDED.props_source,
		updated_at = EXCLUDED.updated_at
	RETURNING (xmax = 0) AS inserted`

const upsertSectorSQL = `
	INSERT INTO sectors (key, name, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (key) DO NOTHING`

// The WHERE clause leaves an unchanged relation untouched.
const linkSectorSQL = `
	INSERT INTO asset_sectors (ticker, sector_key, linked_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (ticker) DO UPDATE SET
		sector_key = EXCLUDED.sector_key,
		linked_at = EXCLUDED.linked_at
	WHERE asset_sectors.sector_key <> EXCLUDED.sector_key`

const selectAssetSQL = `
	SELECT a.ticker, a.name, a.props, a.props_source, a.created_at, a.updated_at, COALESCE(s.name, '')
	FROM assets a
	LEFT JOIN asset_sectors m ON m.ticker = a.ticker
	LEFT JOIN sectors s ON s.key = m.sector_key`

const countsSQL = `
	SELECT
		(SELECT count(*) FROM assets),
		(SELECT count(*) FROM sectors),
		(SELECT count(*) FROM asset_sectors)`
