package config

const (
	delimiter = "."

	KeyRecurrencePrefix         = "recurrence"
	KeyRecurrenceName           = KeyRecurrencePrefix + delimiter + "name"
	KeyRecurrenceRecursionLimit = KeyRecurrencePrefix + delimiter + "recursion_limit"
	KeyRecurrenceMaxDepth       = KeyRecurrencePrefix + delimiter + "max_depth"

	KeyTablePrefix    = "table"
	KeyTableKind      = KeyTablePrefix + delimiter + "kind"
	KeyTableCacheSize = KeyTablePrefix + delimiter + "cache_size"

	KeyLogPrefix = "log"
	KeyLogLevel  = KeyLogPrefix + delimiter + "level"

	KeyEffectPrefix = "effect"

	KeyEffectLogPrefix     = KeyEffectPrefix + delimiter + "log"
	KeyEffectLogBufferSize = KeyEffectLogPrefix + delimiter + "buffer_size"

	KeyEffectRecurrencePrefix     = KeyEffectPrefix + delimiter + "recurrence"
	KeyEffectRecurrenceBufferSize = KeyEffectRecurrencePrefix + delimiter + "buffer_size"
	KeyEffectRecurrenceNumWorkers = KeyEffectRecurrencePrefix + delimiter + "num_workers"
)

// Flag names bound over the keys above.
const (
	FlagConfig         = "config"
	FlagRecurrence     = "recurrence"
	FlagTable          = "table"
	FlagCacheSize      = "cache-size"
	FlagRecursionLimit = "recursion-limit"
	FlagWorkers        = "workers"
	FlagLogLevel       = "log-level"
	FlagList           = "list"
)

var flagKeys = map[string]string{
	FlagRecurrence:     KeyRecurrenceName,
	FlagTable:          KeyTableKind,
	FlagCacheSize:      KeyTableCacheSize,
	FlagRecursionLimit: KeyRecurrenceRecursionLimit,
	FlagWorkers:        KeyEffectRecurrenceNumWorkers,
	FlagLogLevel:       KeyLogLevel,
}
