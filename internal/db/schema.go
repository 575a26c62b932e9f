package db

const schema = `
-- Parsed email intelligence records
CREATE TABLE IF NOT EXISTS emails (
    id TEXT PRIMARY KEY,
    source_path TEXT UNIQUE,
    message_id TEXT,
    in_reply_to TEXT,
    thread_references TEXT,  -- space-separated Message-IDs, document order
    thread_depth INTEGER DEFAULT 0,
    subject TEXT,
    subject_normalized TEXT,
    sender TEXT NOT NULL,
    sender_name TEXT,
    recipients TEXT,
    cc TEXT,
    reply_to TEXT,
    date DATETIME,
    date_raw TEXT,
    content_preview TEXT,    -- first 10KB of signature-free content, for FTS
    signature TEXT,
    body_html TEXT,          -- original HTML body when the message was HTML-only
    spam_score REAL DEFAULT 0,
    spam_flags TEXT,         -- comma-separated indicator names
    entity_count INTEGER DEFAULT 0,
    indexed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per extracted entity occurrence
CREATE TABLE IF NOT EXISTS entities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    raw TEXT NOT NULL,
    normalized TEXT NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY(email_id) REFERENCES emails(id) ON DELETE CASCADE
);

-- Full-text search virtual table
CREATE VIRTUAL TABLE IF NOT EXISTS emails_fts USING fts5(
    subject,
    sender,
    sender_name,
    recipients,
    content_preview,
    content='emails',
    content_rowid='rowid'
);

-- Triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS emails_ai AFTER INSERT ON emails BEGIN
    INSERT INTO emails_fts(rowid, subject, sender, sender_name, recipients, content_preview)
    VALUES (new.rowid, new.subject, new.sender, new.sender_name, new.recipients, new.content_preview);
END;

CREATE TRIGGER IF NOT EXISTS emails_ad AFTER DELETE ON emails BEGIN
    DELETE FROM emails_fts WHERE rowid = old.rowid;
END;

CREATE TRIGGER IF NOT EXISTS emails_au AFTER UPDATE ON emails BEGIN
    UPDATE emails_fts
    SET subject = new.subject,
        sender = new.sender,
        sender_name = new.sender_name,
        recipients = new.recipients,
        content_preview = new.content_preview
    WHERE rowid = new.rowid;
END;

-- Indexes for common lookups
CREATE INDEX IF NOT EXISTS idx_emails_date ON emails(date DESC);
CREATE INDEX IF NOT EXISTS idx_emails_sender ON emails(sender);
CREATE INDEX IF NOT EXISTS idx_emails_message_id ON emails(message_id);
CREATE INDEX IF NOT EXISTS idx_emails_spam_score ON emails(spam_score DESC);
CREATE INDEX IF NOT EXISTS idx_emails_source_path ON emails(source_path);
CREATE INDEX IF NOT EXISTS idx_entities_email_id ON entities(email_id);
CREATE INDEX IF NOT EXISTS idx_entities_kind_normalized ON entities(kind, normalized);
`
