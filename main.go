// SPDX-License-Identifier: MPL-2.0

package main

import cmd "fansh-cli/cmd/fansh"

func main() {
	cmd.Execute()
}
