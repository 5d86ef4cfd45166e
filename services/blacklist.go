package services

// Common passwords rejected at registration regardless of the strength
// rules they happen to satisfy.
var passwordBlacklist = map[string]bool{
	"Password1!":  true,
	"Password123": true,
	"Qwerty123!":  true,
	"Welcome1!":   true,
	"Admin123!":   true,
	"Letmein1!":   true,
	"Abc12345!":   true,
}
