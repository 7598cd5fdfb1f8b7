package metadata

// Persisted keys. Values are strings, JSON-encoded where structured.
const (
	KeyAPIURL          = "apiUrl"
	KeyServerIP        = "serverIp"
	KeyServerPort      = "serverPort"
	KeyUseCustomIP     = "useCustomIp"
	KeyUserData        = "userData"
	KeyRegisteredUsers = "registeredUsers"
)
