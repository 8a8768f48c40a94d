// Package connectors holds the upstream content sources. Each subpackage
// implements driven.PostSource for one service.
package connectors
