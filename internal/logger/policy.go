package logger

import "github.com/scriptdeck/scriptdeck/internal/model"

// StoragePolicy names the set of sinks an entry is written to.
type StoragePolicy string

const (
	PolicyConsoleOnly  StoragePolicy = "console_only"
	PolicyDatabaseOnly StoragePolicy = "database_only"
	PolicyFileOnly     StoragePolicy = "file_only"
	PolicyConsoleDB    StoragePolicy = "console_db"
	PolicyConsoleFile  StoragePolicy = "console_file"
	PolicyAll          StoragePolicy = "all"
)

// SinkSet is the expanded form of a policy.
type SinkSet struct {
	Console  bool
	Database bool
	File     bool
}

func (p StoragePolicy) Sinks() SinkSet {
	switch p {
	case PolicyConsoleOnly:
		return SinkSet{Console: true}
	case PolicyDatabaseOnly:
		return SinkSet{Database: true}
	case PolicyFileOnly:
		return SinkSet{File: true}
	case PolicyConsoleDB:
		return SinkSet{Console: true, Database: true}
	case PolicyConsoleFile:
		return SinkSet{Console: true, File: true}
	case PolicyAll:
		return SinkSet{Console: true, Database: true, File: true}
	default:
		return SinkSet{Console: true}
	}
}

// RoutingTable maps an entry to a storage policy. Level overrides type,
// type overrides the default.
type RoutingTable struct {
	ByLevel map[model.LogLevel]StoragePolicy
	ByType  map[model.LogType]StoragePolicy
	Default StoragePolicy
}

func DefaultRoutingTable() RoutingTable {
	return RoutingTable{
		ByLevel: map[model.LogLevel]StoragePolicy{
			model.LogLevelDebug: PolicyConsoleOnly,
			model.LogLevelWarn:  PolicyConsoleDB,
			model.LogLevelError: PolicyAll,
			model.LogLevelFatal: PolicyAll,
		},
		ByType: map[model.LogType]StoragePolicy{
			model.LogTypeHTTP:        PolicyConsoleFile,
			model.LogTypeSecurity:    PolicyConsoleDB,
			model.LogTypePerformance: PolicyDatabaseOnly,
		},
		Default: PolicyConsoleDB,
	}
}

func (t RoutingTable) Decide(level model.LogLevel, logType model.LogType) StoragePolicy {
	if policy, ok := t.ByLevel[level]; ok {
		return policy
	}
	if policy, ok := t.ByType[logType]; ok {
		return policy
	}
	return t.Default
}
