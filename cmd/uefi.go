// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && amd64

package cmd

import (
	"bytes"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/fwkit/go-efi/shell"
	"github.com/fwkit/go-efi/uefi"
	"github.com/fwkit/go-efi/uefi/x64"
)

const guidPattern = `([[:xdigit:]]{8}-[[:xdigit:]]{4}-[[:xdigit:]]{4}-[[:xdigit:]]{4}-[[:xdigit:]]{12})`

func init() {
	shell.Add(shell.Cmd{
		Name: "uefi",
		Help: "UEFI information",
		Fn:   uefiCmd,
	})

	shell.Add(shell.Cmd{
		Name: "memmap",
		Help: "EFI_BOOT_SERVICES.GetMemoryMap()",
		Fn:   memmapCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "protocol",
		Args:    1,
		Pattern: regexp.MustCompile(`^protocol ` + guidPattern + `$`),
		Syntax:  "<registry format GUID>",
		Help:    "EFI_BOOT_SERVICES.LocateProtocol()",
		Fn:      locateCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "handles",
		Args:    1,
		Pattern: regexp.MustCompile(`^handles ` + guidPattern + `$`),
		Syntax:  "<registry format GUID>",
		Help:    "EFI_BOOT_SERVICES.LocateHandle()",
		Fn:      handlesCmd,
	})

	shell.Add(shell.Cmd{
		Name: "config",
		Help: "EFI Configuration Table entries",
		Fn:   configCmd,
	})

	shell.Add(shell.Cmd{
		Name: "vars",
		Help: "EFI_RUNTIME_SERVICES.GetNextVariableName()",
		Fn:   varsCmd,
	})

	shell.Add(shell.Cmd{
		Name: "disks",
		Help: "EFI Block I/O devices",
		Fn:   disksCmd,
	})

	shell.Add(shell.Cmd{
		Name: "sev",
		Help: "AMD SEV-SNP configuration",
		Fn:   sevCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "alloc",
		Args:    2,
		Pattern: regexp.MustCompile(`^alloc ([[:xdigit:]]+) (\d+)$`),
		Syntax:  "<hex offset> <size>",
		Help:    "EFI_BOOT_SERVICES.AllocatePages()",
		Fn:      allocCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "wdog",
		Args:    1,
		Pattern: regexp.MustCompile(`^wdog (\d+)$`),
		Syntax:  "<seconds>",
		Help:    "EFI_BOOT_SERVICES.SetWatchdogTimer()",
		Fn:      wdogCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "reset",
		Args:    1,
		Pattern: regexp.MustCompile(`^reset(?: (cold|warm))?$`),
		Help:    "EFI_RUNTIME_SERVICES.ResetSystem()",
		Syntax:  "(cold|warm)?",
		Fn:      resetCmd,
	})

	shell.Add(shell.Cmd{
		Name:    "halt, shutdown",
		Args:    1,
		Pattern: regexp.MustCompile(`^(halt|shutdown)$`),
		Help:    "shutdown system",
		Fn:      shutdownCmd,
	})
}

func uefiCmd(_ *shell.Interface, _ []string) (res string, err error) {
	var buf bytes.Buffer

	t := x64.UEFI.SystemTable

	if vendor, err := t.Vendor(); err == nil {
		fmt.Fprintf(&buf, "Firmware Vendor ....: %s\n", vendor)
	}

	fmt.Fprintf(&buf, "Firmware Revision ..: %#x\n", t.FirmwareRevision)
	fmt.Fprintf(&buf, "Boot Revision ......: %#x\n", x64.UEFI.Boot.Revision())
	fmt.Fprintf(&buf, "Runtime Services  ..: %#x\n", t.RuntimeServices)
	fmt.Fprintf(&buf, "Boot Services ......: %#x\n", t.BootServices)
	fmt.Fprintf(&buf, "Configuration Tables: %#x\n", t.ConfigurationTable)

	return buf.String(), err
}

func memmapCmd(_ *shell.Interface, _ []string) (res string, err error) {
	var buf bytes.Buffer
	var memoryMap *uefi.MemoryMap
	var free uint64

	if memoryMap, err = x64.UEFI.Boot.GetMemoryMap(); err != nil {
		return
	}

	fmt.Fprintf(&buf, "Type Start            End              Pages            Attributes\n")

	for _, desc := range memoryMap.Descriptors {
		fmt.Fprintf(&buf, "%02d   %016x %016x %016x %016x\n",
			desc.Type, desc.PhysicalStart, desc.PhysicalEnd()-1, desc.NumberOfPages, desc.Attribute)

		if desc.Type == uefi.EfiConventionalMemory {
			free += desc.NumberOfPages * uefi.PageSize
		}
	}

	fmt.Fprintf(&buf, "%d descriptors (stride %d), %s conventional memory\n",
		len(memoryMap.Descriptors), memoryMap.DescriptorSize, humanize.IBytes(free))

	return buf.String(), err
}

func locateCmd(_ *shell.Interface, arg []string) (res string, err error) {
	guid, err := uefi.ParseGUID(arg[0])

	if err != nil {
		return
	}

	addr, err := x64.UEFI.Boot.LocateProtocol(guid)

	if err != nil {
		return
	}

	return fmt.Sprintf("%s: %#08x", arg[0], addr), nil
}

func handlesCmd(_ *shell.Interface, arg []string) (res string, err error) {
	var buf bytes.Buffer

	guid, err := uefi.ParseGUID(arg[0])

	if err != nil {
		return
	}

	handles, err := x64.UEFI.Boot.HandlesByProtocol(guid)

	if err != nil {
		return
	}

	for i, h := range handles {
		fmt.Fprintf(&buf, "%d: %#08x\n", i, uint64(h))
	}

	return buf.String(), nil
}

func configCmd(_ *shell.Interface, _ []string) (res string, err error) {
	var buf bytes.Buffer

	c, err := x64.UEFI.SystemTable.ConfigurationTables()

	if err != nil {
		return
	}

	for _, t := range c {
		fmt.Fprintf(&buf, "%s (%#x)\n", t.GUID.String(), t.VendorTable)
	}

	return buf.String(), nil
}

func varsCmd(_ *shell.Interface, _ []string) (res string, err error) {
	var buf bytes.Buffer

	vars, err := x64.UEFI.Runtime.Variables()

	if err != nil {
		return
	}

	for guid, names := range vars {
		for _, name := range names {
			fmt.Fprintf(&buf, "%s %s\n", guid.String(), name)
		}
	}

	return buf.String(), nil
}

func disksCmd(_ *shell.Interface, _ []string) (res string, err error) {
	var buf bytes.Buffer

	devices, err := x64.UEFI.Boot.GetBlockDevices()

	if err != nil {
		return
	}

	for _, d := range devices {
		m, err := d.Media()

		if err != nil {
			return "", err
		}

		fmt.Fprintf(&buf, "%#08x: %s (block size %d, partition %v, read-only %v)\n",
			uint64(d.Handle),
			humanize.IBytes((m.LastBlock+1)*uint64(m.BlockSize)),
			m.BlockSize,
			m.LogicalPartition != 0,
			m.ReadOnly != 0,
		)
	}

	return buf.String(), nil
}

func sevCmd(_ *shell.Interface, _ []string) (res string, err error) {
	var buf bytes.Buffer

	snp, err := x64.UEFI.GetSNPConfiguration()

	if err != nil {
		return
	}

	fmt.Fprintf(&buf, "Version ......: %d\n", snp.Version)
	fmt.Fprintf(&buf, "Secrets page .: %#08x (%d bytes)\n", snp.SecretsPagePhysicalAddress, snp.SecretsPageSize)
	fmt.Fprintf(&buf, "CPUID page ...: %#08x (%d bytes)\n", snp.CPUIDPagePhysicalAddress, snp.CPUIDPageSize)

	return buf.String(), nil
}

func allocCmd(_ *shell.Interface, arg []string) (res string, err error) {
	addr, err := strconv.ParseUint(arg[0], 16, 64)

	if err != nil {
		return "", fmt.Errorf("invalid address, %v", err)
	}

	size, err := strconv.ParseUint(arg[1], 10, 64)

	if err != nil {
		return "", fmt.Errorf("invalid size, %v", err)
	}

	if (addr%8) != 0 || (size%8) != 0 {
		return "", fmt.Errorf("only 64-bit aligned accesses are supported")
	}

	log.Printf("allocating memory range %#08x - %#08x", addr, addr+size)

	_, err = x64.UEFI.Boot.AllocatePages(
		uefi.AllocateAddress,
		uefi.EfiLoaderData,
		int(size),
		addr,
	)

	return "", err
}

func wdogCmd(_ *shell.Interface, arg []string) (res string, err error) {
	sec, err := strconv.Atoi(arg[0])

	if err != nil {
		return "", fmt.Errorf("invalid timeout, %v", err)
	}

	return "", x64.UEFI.Boot.SetWatchdogTimer(sec)
}

func resetCmd(_ *shell.Interface, arg []string) (_ string, err error) {
	var resetType int

	switch arg[0] {
	case "cold":
		resetType = uefi.EfiResetCold
	case "warm", "":
		resetType = uefi.EfiResetWarm
	case "shutdown":
		resetType = uefi.EfiResetShutdown
	}

	log.Printf("performing system reset type %d", resetType)
	err = x64.UEFI.Runtime.ResetSystem(resetType)

	return
}

func shutdownCmd(_ *shell.Interface, _ []string) (_ string, err error) {
	return resetCmd(nil, []string{"shutdown"})
}
