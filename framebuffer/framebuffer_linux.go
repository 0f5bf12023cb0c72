package framebuffer

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"github.com/BeatGlow/screen"
	"github.com/BeatGlow/screen/internal/ioctl"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*FrameBuffer, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fix  fixScreenInfo
		info varScreenInfo
	)
	if err = ioctl.Do(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&fix)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %s: %w", name, err)
	}
	if err = ioctl.Do(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&info)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %s: %w", name, err)
	}

	size := int(fix.LineLength) * int(info.YresVirtual)
	mem, err := syscall.Mmap(int(f.Fd()), 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %s: mmap %d bytes: %w", name, size, err)
	}

	fb, err := newFrameBuffer(name, &fix, &info, mem)
	if err != nil {
		_ = syscall.Munmap(mem)
		_ = f.Close()
		return nil, err
	}
	fb.f = f

	screen.Logger().Info("framebuffer: opened", "name", name, "width", info.Xres, "height", info.Yres,
		"bpp", info.BitsPerPixel, "line", fix.LineLength)
	return fb, nil
}

// Close unmaps the video memory and closes the device.
func (fb *FrameBuffer) Close() error {
	if fb.mem == nil {
		return nil
	}
	err := syscall.Munmap(fb.mem)
	fb.mem = nil
	if fb.f != nil {
		err = errors.Join(err, fb.f.Close())
	}
	return err
}
