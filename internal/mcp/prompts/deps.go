// Package prompts contains MCP prompt implementations for vRealize Automation.
package prompts

import "time"

// Config holds configuration needed by prompts.
type Config struct {
	Host        string
	Tenant      string
	WaitTimeout time.Duration
}
