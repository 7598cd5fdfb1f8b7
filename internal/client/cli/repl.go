package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Users(ctx context.Context) error
	Settings(ctx context.Context) error
	Endpoint(ctx context.Context) error
	ResetEndpoint(ctx context.Context) error
	Status(ctx context.Context) error
	ProcessText(ctx context.Context) error
	ProcessYouTube(ctx context.Context) error
	ProcessPDF(ctx context.Context) error
	ProcessVoice(ctx context.Context) error
	Quiz(ctx context.Context) error
	Flashcards(ctx context.Context) error
}

const (
	helpGuest = "Available commands: register, login, settings, endpoint, reset-endpoint, status, exit"
	helpUser  = "Available commands: text, youtube, pdf, voice, quiz, flashcards, whoami, users, " +
		"settings, endpoint, reset-endpoint, status, logout, exit"
)

// runREPL starts a read–eval–print loop for the Study Companion client.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a. Unknown commands are reported back to the user.
// The loop exits on EOF, when ctx is done, or when the user types "exit" or
// "quit".
//
// Handlers print their own user-facing errors, so their return values are
// ignored here. reader is shared with the handlers' prompts.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("sc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := strings.ToLower(parts[0]); cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "users":
			_ = a.Users(ctx)

		case "settings":
			_ = a.Settings(ctx)
		case "endpoint":
			_ = a.Endpoint(ctx)
		case "reset-endpoint":
			_ = a.ResetEndpoint(ctx)
		case "status":
			_ = a.Status(ctx)

		case "text":
			_ = a.ProcessText(ctx)
		case "youtube":
			_ = a.ProcessYouTube(ctx)
		case "pdf":
			_ = a.ProcessPDF(ctx)
		case "voice":
			_ = a.ProcessVoice(ctx)
		case "quiz":
			_ = a.Quiz(ctx)
		case "flashcards", "cards":
			_ = a.Flashcards(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if errors.Is(err, io.EOF) {
			return
		}
	}
}
