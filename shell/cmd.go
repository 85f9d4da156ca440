// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// CmdFn represents a command handler.
type CmdFn func(iface *Interface, arg []string) (res string, err error)

// Cmd represents a shell command.
type Cmd struct {
	// Name is the command name.
	Name string

	// Args defines the number of command arguments, only symbols matched
	// by Pattern are passed to the command handler.
	Args int

	// Pattern defines the command syntax and arguments, a nil Pattern
	// matches the command Name literally.
	Pattern *regexp.Regexp

	// Syntax defines the Help() command syntax field.
	Syntax string

	// Help defines the Help() command description field.
	Help string

	// Fn defines the command handler.
	Fn CmdFn
}

var cmds = make(map[string]*Cmd)

// Add registers a terminal interface command.
func Add(cmd Cmd) {
	cmds[cmd.Name] = &cmd
}

// Help returns the registered commands help.
func Help() string {
	var res string
	var names []string

	t := tabs(cmds)

	for name := range cmds {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		cmd := cmds[name]
		res += fmt.Sprintf("%s %s%s\n",
			pad(cmd.Name, t), pad(cmd.Syntax, t), cmd.Help)
	}

	return res
}

func tabs(cmds map[string]*Cmd) (t int) {
	for _, cmd := range cmds {
		if n := len(cmd.Name); n > t {
			t = n
		}

		if n := len(cmd.Syntax); n > t {
			t = n
		}
	}

	return t + 1
}

func pad(s string, t int) string {
	if n := t - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}

	return s
}
