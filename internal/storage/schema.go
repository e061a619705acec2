package storage

const schema = `
-- One scheduling record per learnable item.
CREATE TABLE IF NOT EXISTS cards (
    item_id TEXT PRIMARY KEY,
    due DATETIME NOT NULL,
    stability REAL NOT NULL DEFAULT 0,
    difficulty REAL NOT NULL DEFAULT 0,
    elapsed_days INTEGER NOT NULL DEFAULT 0,
    scheduled_days INTEGER NOT NULL DEFAULT 0,
    reps INTEGER NOT NULL DEFAULT 0,
    lapses INTEGER NOT NULL DEFAULT 0,
    state INTEGER NOT NULL DEFAULT 0, -- 0: New, 1: Learning, 2: Review, 3: Relearning
    last_review DATETIME,
    win_streak INTEGER NOT NULL DEFAULT 0,
    fail_streak INTEGER NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cards_due ON cards(due);

-- Append-only audit log of answered prompts.
CREATE TABLE IF NOT EXISTS learning_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    device_id TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    item_id TEXT NOT NULL,
    ms_to_first_click INTEGER NOT NULL,
    ms_to_completion INTEGER NOT NULL,
    attempts INTEGER NOT NULL,
    first_click_distance REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_learning_events_item ON learning_events(item_id);

-- One challenge run per UTC date; slots and results as JSON documents.
CREATE TABLE IF NOT EXISTS daily_challenges (
    date TEXT PRIMARY KEY,
    slots TEXT NOT NULL,
    results TEXT NOT NULL,
    total_score INTEGER NOT NULL DEFAULT 0,
    total_time_ms INTEGER NOT NULL DEFAULT 0
);

-- Completion flags live apart from the run records.
CREATE TABLE IF NOT EXISTS challenge_completions (
    date TEXT PRIMARY KEY
);

-- Stable per-installation identity.
CREATE TABLE IF NOT EXISTS device_info (
    id TEXT PRIMARY KEY,
    device_id TEXT NOT NULL
);
`
