//go:build windows

package spawn

import "syscall"

func detachedAttr() *syscall.SysProcAttr {
	// DETACHED_PROCESS | CREATE_NEW_PROCESS_GROUP
	return &syscall.SysProcAttr{CreationFlags: 0x00000008 | 0x00000200}
}
