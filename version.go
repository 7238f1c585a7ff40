package botcore

// Version is the release of the module, set at build time with
// -ldflags "-X github.com/AskoldMakaruk/TelegramBotCore.Version=...".
var Version = "dev"
