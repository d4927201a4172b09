// Package branding holds product naming shared by every command.
package branding

// AppName is the product name shown to users and MCP clients.
const AppName = "Diceroll"
