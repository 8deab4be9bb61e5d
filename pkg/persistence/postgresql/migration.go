package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create collections and posts tables
			CREATE TABLE collections (
				id VARCHAR(64) PRIMARY KEY,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE posts (
				collection_id VARCHAR(64) NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				position INT NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN (
					'draft', 'awaiting_design', 'in_design', 'pending_review',
					'needs_revision', 'approved', 'published', 'scheduled'
				)),
				priority VARCHAR(20) NOT NULL,
				author_id VARCHAR(255) NOT NULL,
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				PRIMARY KEY (collection_id, id)
			);

			CREATE INDEX idx_posts_collection_status ON posts(collection_id, status);
		`,
		2: `
			-- Lookups for the attention view and the release scheduler
			ALTER TABLE posts ADD COLUMN scheduled_for TIMESTAMP WITH TIME ZONE;

			CREATE INDEX idx_posts_author_id ON posts(author_id);
			CREATE INDEX idx_posts_scheduled_for ON posts(scheduled_for) WHERE status = 'scheduled';
		`,
	}
}
