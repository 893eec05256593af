package journal

const (
	queryInsertPendingSync = `
		INSERT INTO pending_syncs (id, signature, reason, status)
		VALUES (?, ?, ?, 'pending')`

	queryCheckExistingSignature = `
		SELECT id FROM pending_syncs WHERE signature = ? LIMIT 1`

	queryListPending = `
		SELECT id, signature, reason, status, attempts, last_error, created_at, updated_at
		FROM pending_syncs
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT ?`

	queryMarkSynced = `
		UPDATE pending_syncs
		SET status = 'synced', updated_at = CURRENT_TIMESTAMP
		WHERE signature = ? AND status = 'pending'`

	queryMarkAttempt = `
		UPDATE pending_syncs
		SET attempts = attempts + 1, last_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE signature = ? AND status = 'pending'`

	queryCleanupSynced = `
		DELETE FROM pending_syncs
		WHERE status = 'synced' AND updated_at < ?`

	queryCountPending = `
		SELECT COUNT(*) FROM pending_syncs WHERE status = 'pending'`
)
