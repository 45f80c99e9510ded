package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    full_name VARCHAR(100) NOT NULL,
    github_username VARCHAR(39) NOT NULL DEFAULT '',
    linkedin_url VARCHAR(255) NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    last_seen_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('active', 'inactive', 'deactivated'))
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_status ON users(status) WHERE status != 'deactivated';
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE RUBRIC SCORES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create rubric_scores table
-- Version: 002

CREATE TABLE IF NOT EXISTS rubric_scores (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category VARCHAR(30) NOT NULL,
    subcategory VARCHAR(50) NOT NULL,
    score SMALLINT NOT NULL,
    metadata_kind VARCHAR(20) NOT NULL DEFAULT 'none',
    metadata_value VARCHAR(255) NOT NULL DEFAULT '',
    metadata_bag JSONB,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_category CHECK (category IN ('technical_skills', 'social_blueprint', 'personal_attributes')),
    CONSTRAINT valid_score CHECK (score >= 1 AND score <= 5),
    CONSTRAINT valid_metadata_kind CHECK (metadata_kind IN ('none', 'text', 'mentorship', 'bag')),

    -- One score per subcategory per user: re-analysis replaces the category.
    UNIQUE(user_id, category, subcategory)
);

CREATE INDEX IF NOT EXISTS idx_rubric_scores_user_id ON rubric_scores(user_id);
CREATE INDEX IF NOT EXISTS idx_rubric_scores_user_category ON rubric_scores(user_id, category);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE MATCHING
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create match_requests, connections and notifications tables
-- Version: 003

CREATE TABLE IF NOT EXISTS match_requests (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    sender_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    receiver_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    compatibility_score INTEGER NOT NULL DEFAULT 0,
    match_reason TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_request_status CHECK (status IN ('pending', 'accepted', 'rejected')),
    CONSTRAINT valid_compatibility CHECK (compatibility_score >= 0 AND compatibility_score <= 100),
    CONSTRAINT no_self_request CHECK (sender_id != receiver_id)
);

-- At most one request per unordered pair, regardless of direction.
-- The insert races on this index instead of a check-then-insert.
CREATE UNIQUE INDEX IF NOT EXISTS idx_match_requests_pair
    ON match_requests(LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id));

CREATE INDEX IF NOT EXISTS idx_match_requests_sender ON match_requests(sender_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_match_requests_receiver ON match_requests(receiver_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_match_requests_status ON match_requests(status);

CREATE TABLE IF NOT EXISTS connections (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user1_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    user2_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    match_request_id UUID REFERENCES match_requests(id) ON DELETE SET NULL,
    compatibility_score INTEGER NOT NULL DEFAULT 0,
    match_details JSONB,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT distinct_members CHECK (user1_id != user2_id)
);

-- At most one connection per unordered pair.
CREATE UNIQUE INDEX IF NOT EXISTS idx_connections_pair
    ON connections(LEAST(user1_id, user2_id), GREATEST(user1_id, user2_id));

CREATE INDEX IF NOT EXISTS idx_connections_user1 ON connections(user1_id);
CREATE INDEX IF NOT EXISTS idx_connections_user2 ON connections(user2_id);

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    type VARCHAR(30) NOT NULL,
    title VARCHAR(255) NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    related_id UUID,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_notification_type CHECK (type IN ('match_request', 'match_confirmed', 'match_rejected'))
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE is_read = FALSE;
`
