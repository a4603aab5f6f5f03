/*
main.go

Copyright © 2025 Code Monkey Cybersecurity
Contact: git@cybermonkey.net.au

This file is part of iamseed.

This software is dual-licensed under the Do No Harm License
and the GNU Affero General Public License v3 (AGPL-3.0-or-later).
You may use, modify, and distribute it under the terms of either license.

See LICENSE.agpl and LICENSE.dnh for full details.
*/
package main

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/iamseed/cmd"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/config"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/logger"
)

func main() {
	// .env first so LOG_LEVEL and LOG_FILE from it reach the logger.
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Could not read .env:", err)
	}
	logger.InitializeWithFallback()

	cmd.Execute()
}
