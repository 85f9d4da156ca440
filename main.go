// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/fwkit/go-efi/cmd"
	"github.com/fwkit/go-efi/shell"
	"github.com/fwkit/go-efi/uefi/x64"
)

func init() {
	log.SetFlags(0)

	cmd.Banner = fmt.Sprintf("%s/%s (%s) • UEFI",
		runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func main() {
	logFile, _ := os.OpenFile("/runtime.log", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))

	console := &shell.Interface{
		Banner:     cmd.Banner,
		Log:        logFile,
		ReadWriter: x64.UEFI.Console,
		VT100:      true,
	}

	console.Start()

	runtime.Exit(0)
}
