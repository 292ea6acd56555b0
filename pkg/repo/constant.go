package repo

const (
	AppName = "OnyxLedger"

	// CfgFileName is the default config name
	CfgFileName = "config.toml"

	genesisCfgFileName = "genesis.toml"

	// defaultRepoRoot is the path to the default config dir location.
	defaultRepoRoot = "~/.onyx-ledger"

	// rootPathEnvVar is the environment variable used to change the path root.
	rootPathEnvVar = "ONYX_LEDGER_PATH"

	pidFileName = "running.pid"

	LogsDirName = "logs"

	StorageDirName = "storage"
)

const (
	KVStorageTypeLeveldb = "leveldb"
	KVStorageTypePebble  = "pebble"
	KVStorageCacheSize   = 16
	KVStorageSync        = true
)

const (
	DefaultAssetName     = "Onyx"
	DefaultAssetSymbol   = "ONX"
	DefaultAssetDecimals = 18

	// 100000000 onx with 18 decimals
	DefaultInitialSupply = "100000000000000000000000000"

	// caps default to one percent of the initial supply for transactions
	// and ten percent for a single wallet
	DefaultMaxTransactionAmount = "1000000000000000000000000"
	DefaultMaxWalletBalance     = "10000000000000000000000000"

	DefaultOwner = "0xF05C33aA6D2025AD0FF50542Ba340cf9202bf7a0"
)
