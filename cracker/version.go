package cracker

// Version of mtpcrack.
// This variable can be overridden at build time using:
//
//	go build -ldflags "-X github.com/liftbridge-io/mtpcrack/cracker.Version=v1.0.0"
var Version = "dev"
