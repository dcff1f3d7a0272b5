package commands

// DefaultDefinitions is the closed command set. Aliases follow the
// reference firmware companion tools, including the brace shorthands
// usable mid-chat.
func DefaultDefinitions() []Definition {
	return []Definition{
		// Device
		{Name: "infos", Aliases: []string{"i"}, Description: "Show device information", MinArgs: 0, MaxArgs: 0, Handler: handleInfos},
		{Name: "ver", Aliases: []string{"v"}, Description: "Show firmware version", MinArgs: 0, MaxArgs: 0, Handler: handleVer},
		{Name: "battery", Description: "Show battery status", MinArgs: 0, MaxArgs: 0, Handler: handleBattery},
		{Name: "clock", Description: "Show the device clock", MinArgs: 0, MaxArgs: 0, Handler: handleClock},
		{Name: "sync_time", Aliases: []string{"st"}, Description: "Set the device clock from this host", MinArgs: 0, MaxArgs: 0, Handler: handleSyncTime},
		{Name: "time", Usage: "time <epoch>", Description: "Set the device clock", MinArgs: 1, MaxArgs: 1, Handler: handleTime},
		{Name: "advert", Aliases: []string{"a"}, Description: "Send a zero-hop advert", MinArgs: 0, MaxArgs: 0, Handler: handleAdvert},
		{Name: "floodadv", Description: "Send a flood advert", MinArgs: 0, MaxArgs: 0, Handler: handleFloodAdvert},
		{Name: "reboot", Description: "Reboot the device", MinArgs: 0, MaxArgs: 0, Handler: handleReboot},
		{Name: "get", Usage: "get <param>", Description: "Read a device parameter", MinArgs: 1, MaxArgs: 1, Handler: handleGet},
		{Name: "set", Usage: "set <param> <value>", Description: "Write a device parameter", MinArgs: 2, MaxArgs: 2, Handler: handleSet},
		{Name: "stats", Usage: "stats [core|radio|packets]", Description: "Show device statistics", MinArgs: 0, MaxArgs: 1, Handler: handleStats},
		{Name: "card", Aliases: []string{"e"}, Description: "Show this node's shareable card", MinArgs: 0, MaxArgs: 0, Handler: handleCard},
		{Name: "self_telemetry", Aliases: []string{"t"}, Description: "Read local sensors", MinArgs: 0, MaxArgs: 0, Handler: handleSelfTelemetry},
		{Name: "node_discover", Aliases: []string{"nd"}, Description: "Probe for zero-hop neighbours", MinArgs: 0, MaxArgs: 0, Handler: handleNodeDiscover},
		{Name: "export_key", Description: "Export the identity key", MinArgs: 0, MaxArgs: 0, Handler: handleExportKey},
		{Name: "import_key", Usage: "import_key <hex>", Description: "Import an identity key", MinArgs: 1, MaxArgs: 1, Handler: handleImportKey},
		{Name: "get_vars", Description: "List custom variables", MinArgs: 0, MaxArgs: 0, Handler: handleGetVars},
		{Name: "set_var", Usage: "set_var <name> <value>", Description: "Set a custom variable", MinArgs: 2, MaxArgs: 2, Handler: handleSetVar},
		{Name: "scope", Usage: "scope <name>", Description: "Set the flood scope", MinArgs: 1, MaxArgs: 1, Handler: handleScope},
		{Name: "sleep", Aliases: []string{"s"}, Usage: "sleep <seconds>", Description: "Pause a chain or script", MinArgs: 1, MaxArgs: 1, Handler: handleSleep},
		{Name: "wait_key", Aliases: []string{"wk"}, Description: "Wait for a key press", MinArgs: 0, MaxArgs: 0, Handler: handleWaitKey},

		// Contacts
		{Name: "contacts", Aliases: []string{"list", "lc"}, Usage: "contacts [filter]", Description: "List contacts", MinArgs: 0, MaxArgs: 1, Handler: handleContacts},
		{Name: "reload_contacts", Description: "Re-read the contact table", MinArgs: 0, MaxArgs: 0, Handler: handleReloadContacts},
		{Name: "contact_info", Aliases: []string{"ci"}, Usage: "contact_info [name]", Description: "Show one contact", MinArgs: 0, MaxArgs: 1, Handler: handleContactInfo},
		{Name: "remove_contact", Usage: "remove_contact <name>", Description: "Remove a contact", MinArgs: 1, MaxArgs: 1, Handler: handleRemoveContact},
		{Name: "share_contact", Aliases: []string{"sc"}, Usage: "share_contact [name]", Description: "Share a contact on the mesh", MinArgs: 0, MaxArgs: 1, Handler: handleShareContact},
		{Name: "export_contact", Aliases: []string{"ec"}, Usage: "export_contact [name]", Description: "Export a contact card URI", MinArgs: 0, MaxArgs: 1, Handler: handleExportContact},
		{Name: "import_contact", Aliases: []string{"ic"}, Usage: "import_contact <uri>", Description: "Import a contact card URI", MinArgs: 1, MaxArgs: 1, Handler: handleImportContact},
		{Name: "path", Usage: "path [name]", Description: "Show the route to a contact", MinArgs: 0, MaxArgs: 1, Handler: handlePath},
		{Name: "disc_path", Aliases: []string{"dp"}, Usage: "disc_path [name]", Description: "Discover a route to a contact", MinArgs: 0, MaxArgs: 1, Handler: handleDiscoverPath},
		{Name: "reset_path", Aliases: []string{"rp"}, Usage: "reset_path <name>", Description: "Reset a contact to flood routing", MinArgs: 1, MaxArgs: 1, Handler: handleResetPath},
		{Name: "change_path", Aliases: []string{"cp"}, Usage: "change_path <name> <path>", Description: "Set an explicit route", MinArgs: 2, MaxArgs: 2, Handler: handleChangePath},
		{Name: "change_flags", Aliases: []string{"cf"}, Usage: "change_flags <name> <flags>", Description: "Set contact flags", MinArgs: 2, MaxArgs: 2, Handler: handleChangeFlags},

		// Messaging
		{Name: "msg", Aliases: []string{"m", "{"}, Usage: "msg [name] <text>", Description: "Send a private message", MinArgs: 1, MaxArgs: Variadic, Handler: handleMsg},
		{Name: "chan", Aliases: []string{"ch"}, Usage: "chan <n> <text>", Description: "Send to a channel", MinArgs: 2, MaxArgs: Variadic, Handler: handleChan},
		{Name: "public", Aliases: []string{"dch"}, Usage: "public <text>", Description: "Send to the public channel", MinArgs: 1, MaxArgs: Variadic, Handler: handlePublic},
		{Name: "recv", Aliases: []string{"r"}, Description: "Read the next buffered message", MinArgs: 0, MaxArgs: 0, Handler: handleRecv},
		{Name: "wait_ack", Aliases: []string{"wa", "}"}, Usage: "wait_ack [seconds]", Description: "Wait for the last send's ack", MinArgs: 0, MaxArgs: 1, Handler: handleWaitAck},
		{Name: "wait_msg", Aliases: []string{"wm"}, Usage: "wait_msg [seconds]", Description: "Wait for the next message", MinArgs: 0, MaxArgs: 1, Handler: handleWaitMsg},
		{Name: "trywait_msg", Aliases: []string{"wmt"}, Usage: "trywait_msg <seconds>", Description: "Wait for a message, bounded", MinArgs: 1, MaxArgs: 1, Handler: handleTryWaitMsg},
		{Name: "wmt8", Aliases: []string{"]"}, Description: "Wait up to 8s for a message", MinArgs: 0, MaxArgs: 0, Handler: handleWaitMsg8},
		{Name: "sync_msgs", Aliases: []string{"sm"}, Description: "Fetch all queued messages", MinArgs: 0, MaxArgs: 0, Handler: handleSyncMsgs},
		{Name: "msgs_subscribe", Aliases: []string{"ms"}, Description: "Stream messages until interrupted", MinArgs: 0, MaxArgs: 0, Handler: handleMsgsSubscribe},
		{Name: "history", Usage: "history [n] [peer]", Description: "Show archived messages", MinArgs: 0, MaxArgs: 2, Handler: handleHistory},

		// Repeaters and rooms
		{Name: "login", Aliases: []string{"l"}, Usage: "login [name] <password>", Description: "Log in to a repeater", MinArgs: 1, MaxArgs: 2, Handler: handleLogin},
		{Name: "logout", Usage: "logout [name]", Description: "Log out of a repeater", MinArgs: 0, MaxArgs: 1, Handler: handleLogout},
		{Name: "cmd", Aliases: []string{"c", "["}, Usage: "cmd [name] <command>", Description: "Send a repeater command", MinArgs: 1, MaxArgs: Variadic, Handler: handleCmd},
		{Name: "req_status", Aliases: []string{"rs"}, Usage: "req_status [name]", Description: "Request repeater status", MinArgs: 0, MaxArgs: 1, Handler: handleReqStatus},
		{Name: "req_telemetry", Aliases: []string{"rt"}, Usage: "req_telemetry [name]", Description: "Request remote telemetry", MinArgs: 0, MaxArgs: 1, Handler: handleReqTelemetry},
		{Name: "req_mma", Aliases: []string{"rm"}, Usage: "req_mma <name> [start] [end]", Description: "Request sensor history", MinArgs: 1, MaxArgs: 3, Handler: handleReqMMA},
		{Name: "req_acl", Usage: "req_acl [name]", Description: "Request a repeater's ACL", MinArgs: 0, MaxArgs: 1, Handler: handleReqACL},
		{Name: "req_neighbours", Aliases: []string{"rn"}, Usage: "req_neighbours [name]", Description: "Request a repeater's neighbours", MinArgs: 0, MaxArgs: 1, Handler: handleReqNeighbours},
		{Name: "req_binary", Aliases: []string{"rb"}, Usage: "req_binary <name> <hex>", Description: "Send a raw binary request", MinArgs: 2, MaxArgs: 2, Handler: handleReqBinary},
		{Name: "trace", Aliases: []string{"tr"}, Usage: "trace <hop> [hop...]", Description: "Probe an explicit path", MinArgs: 1, MaxArgs: Variadic, Handler: handleTrace},

		// Channel slots
		{Name: "get_channels", Aliases: []string{"gc"}, Description: "List channel slots", MinArgs: 0, MaxArgs: 0, Handler: handleGetChannels},
		{Name: "get_channel", Usage: "get_channel <n>", Description: "Show one channel slot", MinArgs: 1, MaxArgs: 1, Handler: handleGetChannel},
		{Name: "set_channel", Usage: "set_channel <n> <name> [key]", Description: "Configure a channel slot", MinArgs: 2, MaxArgs: 3, Handler: handleSetChannel},
		{Name: "add_channel", Usage: "add_channel <name> [key]", Description: "Add a channel in the first free slot", MinArgs: 1, MaxArgs: 2, Handler: handleAddChannel},
		{Name: "remove_channel", Usage: "remove_channel <n>", Description: "Clear a channel slot", MinArgs: 1, MaxArgs: 1, Handler: handleRemoveChannel},

		// Batch and scripting
		{Name: "apply_to", Aliases: []string{"at"}, Usage: "apply_to <filter> <command...>", Description: "Run a command on every matching contact", MinArgs: 2, MaxArgs: Variadic, Handler: handleApplyTo},
		{Name: "script", Usage: "script <file>", Description: "Run a script file", MinArgs: 1, MaxArgs: 1, Handler: handleScript},
	}
}

// DefaultRegistry builds the alias table for the default command set.
// The set is static, so a duplicate alias here is a programming error.
func DefaultRegistry() *Registry {
	return MustRegistry(DefaultDefinitions())
}
