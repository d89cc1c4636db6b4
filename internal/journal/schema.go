package journal

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	price REAL NOT NULL,
	signal TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	decision TEXT NOT NULL,
	size REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_time ON cycles(time);
CREATE INDEX IF NOT EXISTS idx_cycles_run ON cycles(run_id);
`
