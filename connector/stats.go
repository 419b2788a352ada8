package connector

// ConnectionStats counts the work done through one connection.
type ConnectionStats struct {
	StatementsExecuted int64
	RowsReturned       int64
	CacheHits          int64
	CacheMisses        int64
	// CachedStatements is the number of statements currently prepared.
	CachedStatements int
}
