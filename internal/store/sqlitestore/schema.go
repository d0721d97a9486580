package sqlitestore

const schemaSQL = `
CREATE TABLE IF NOT EXISTS savings_records (
    user_key         TEXT PRIMARY KEY,
    wishes           TEXT NOT NULL DEFAULT '[]',
    current_balance  REAL NOT NULL DEFAULT 0,
    daily_saving     REAL NOT NULL DEFAULT 0,
    updated_at       TEXT NOT NULL
);
`
