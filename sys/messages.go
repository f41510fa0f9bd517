package sys

// --- Message Constants ---

const (
	// --- Infrastructure & Lifecycle ---
	MsgConfigFailedToLoad  = "Failed to load config: %v"
	MsgConfigMissingToken  = "missing DISCORD_TOKEN"
	MsgConfigBadGuildID    = "invalid GUILD_ID: must be a valid Snowflake"
	MsgConfigBadIdle       = "invalid IDLE_TIMEOUT: must be positive"
	MsgConfigIdleParseFail = "invalid IDLE_TIMEOUT: %w"
	MsgDatabaseInitFail    = "Failed to initialize database: %v"
	MsgDaemonStarting      = "Starting..."
	MsgDaemonShutdown      = "Stopping background daemons..."
	MsgBotStarting         = "Starting %s..."
	MsgBotReady            = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown         = "Shutting down %s..."
	MsgBotRegisterFail     = "Command registration failed: %v"
	MsgBotKillingOld       = "Killing running instance... (PID: %d)"
	MsgBotOldTerminated    = "Old instance terminated."
	MsgBotPIDWriteFail     = "Failed to write PID file: %v"
	MsgBotClientCreateFail = "failed to create client after %d attempts: %w"
	MsgBotClientRetry      = "Client creation attempt %d failed: %v"
	MsgBotGatewayFail      = "failed to open gateway: %w"

	// --- Command Loader & Registry ---
	MsgLoaderSyncCommands       = "Syncing %s commands..."
	MsgLoaderCleanup            = "[CLEANUP] Removing commands from previous dev guild: %s"
	MsgLoaderDevStarting        = "[DEV] Registering commands to guild: %s"
	MsgLoaderDevRegistered      = "[DEV] Registered: %s"
	MsgLoaderDevFail            = "[DEV] Registration failed: %v"
	MsgLoaderDevGlobalClear     = "[DEV] Verifying global commands are cleared..."
	MsgLoaderDevGlobalClearFail = "[DEV] Global clear skipped (likely rate limited): %v"
	MsgLoaderProdStarting       = "[PROD] Registering commands globally..."
	MsgLoaderProdRegistered     = "[PROD] Registered: %s"
	MsgLoaderProdFail           = "[PROD] Global registration failed: %w"
	MsgLoaderPanicRecovered     = "Panic recovered in handler: %v"
	MsgLoaderUpToDate           = "[LOADER] Commands are up to date. (Hash: %s)"
	MsgLoaderInvalidGuildID     = "invalid GUILD_ID: %w"

	// --- Voice & Playback ---
	MsgVoiceConnecting      = "Connecting to channel %s in guild %s"
	MsgVoiceConnectFail     = "Failed to connect to voice: %v"
	MsgVoiceDisconnected    = "Disconnected from guild %s"
	MsgVoiceNowPlaying      = "Now playing %q in guild %s"
	MsgVoicePlaybackFail    = "Playback failed for %q: %v"
	MsgVoiceTransportRetry  = "Transport failure on %q (attempt %d), reconnecting: %v"
	MsgVoiceIdleTimeout     = "Session in guild %s idle for %s, leaving"
	MsgVoiceSessionReleased = "Session released for guild %s"

	// --- Resolver ---
	MsgResolverResolving    = "Resolving %q"
	MsgResolverResolveFail  = "Failed to resolve %q: %v"
	MsgResolverRetry        = "Network error resolving %q (attempt %d): %v"
	MsgResolverRelatedFail  = "Failed to find related tracks for %q: %v"
	MsgResolverPlaylistFail = "Failed to expand playlist %q: %v"
)
