package model

// SyncStatus describes how far a client copy of a collection lags behind the store.
// Timestamps are unix milliseconds.
type SyncStatus struct {
	Collection            string `json:"collection"`
	LastSyncTimestamp     int64  `json:"lastSyncTimestamp"`
	TotalRecords          int64  `json:"totalRecords"`
	RecordsPendingSync    int64  `json:"recordsPendingSync"`
	SyncRequired          bool   `json:"syncRequired"`
	LastModifiedTimestamp int64  `json:"lastModifiedTimestamp"`
}
