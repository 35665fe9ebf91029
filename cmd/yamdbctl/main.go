// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command yamdbctl is the operator CLI: schema migrations and account bootstrap.
package main

import "github.com/taibuivan/yamdb/cmd/yamdbctl/commands"

func main() {
	commands.Execute()
}
