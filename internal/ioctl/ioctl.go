//go:build unix

// Package ioctl encodes and issues ioctl requests for the device drivers in this module.
package ioctl

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Mode is the data direction of an ioctl request.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) String() string {
	var (
		mode = Mode(c >> 30 & 0x03)
		size = c >> 16 & 0x3fff
		cmd  = c & 0xffff
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) %#04x", str, size, uintptr(cmd))
}

// Do issues command on fd with arg pointing at the request argument.
func Do(fd uintptr, command Command, arg unsafe.Pointer) error {
	// The pointer is converted in the call expression so arg stays valid during the syscall.
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, uintptr(command), uintptr(arg)); errno != 0 {
		return fmt.Errorf("%s failed: %w", command, errno)
	}
	return nil
}

// Call does a plain ioctl system call.
func Call(fd, command, arg uintptr) error {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, command, arg); errno != 0 {
		return fmt.Errorf("%s failed: %w", Command(command), errno)
	}
	return nil
}

// Encode an ioctl command from its direction, argument size and type/number.
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<30 | Command(size)<<16 | Command(cmd)
}

// For encodes a command whose argument is a T.
func For[T any](mode Mode, cmd uintptr) Command {
	var v T
	return Encode(mode, uint16(unsafe.Sizeof(v)), cmd)
}
