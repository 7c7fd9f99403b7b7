//go:build jshost && cgo

package jshost

/*
#include <stdint.h>
#include <stdlib.h>

extern void js_did_open_video(uint32_t width, uint32_t height);
extern void js_blit(const uint8_t *buf, uint32_t size);

extern void js_did_open_audio(uint32_t sample_rate, uint32_t sample_size, uint32_t channels);
extern int32_t js_audio_buffer_size(void);
extern void js_enqueue_audio(const uint8_t *buf, uint32_t size);

extern int32_t js_disk_open(const char *name);
extern void js_disk_close(int32_t disk_id);
extern double js_disk_size(int32_t disk_id);
extern double js_disk_read(int32_t disk_id, uint8_t *buf, double offset, double length);
extern double js_disk_write(int32_t disk_id, const uint8_t *buf, double offset, double length);
extern char *js_consume_cdrom_name(void);
extern void js_free(void *ptr);

extern int32_t js_acquire_input_lock(void);
extern void js_release_input_lock(void);
extern int32_t js_has_mouse_position(void);
extern int32_t js_get_mouse_x_position(void);
extern int32_t js_get_mouse_y_position(void);
extern int32_t js_get_mouse_delta_x(void);
extern int32_t js_get_mouse_delta_y(void);
extern int32_t js_get_mouse_button_state(void);
extern int32_t js_has_key_event(void);
extern int32_t js_get_key_code(void);
extern int32_t js_get_key_state(void);
extern int32_t js_has_speed_event(void);
extern int32_t js_get_speed(void);

extern int32_t js_snapshot_take_kind(void);
extern uint32_t js_snapshot_take_request_id(void);
extern void js_snapshot_complete_save(uint32_t request_id);
extern void js_snapshot_complete_loaded(uint32_t request_id);
extern void js_snapshot_complete_error(uint32_t request_id, const char *error);

extern void js_sleep(double secs);
extern void js_check_for_periodic_tasks(void);
*/
import "C"

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unsafe"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/bridge"
	"github.com/user-none/snowbridge/hostif"
	"github.com/user-none/snowbridge/internal/logger"
)

// Compile-time interface check.
var _ hostif.Primitives = (*Host)(nil)

// Host calls the worker's js_* imports.
type Host struct {
	snapshots SnapshotFS
}

// New returns a Host exchanging snapshots under DefaultSnapshotDir.
func New() *Host {
	return &Host{snapshots: SnapshotFS{Dir: DefaultSnapshotDir}}
}

// Run is the worker entry point: it sets up logging, parses os.Args and
// runs the bridge until the core stops.
func Run(factory emucore.CoreFactory) int {
	if err := logger.Setup(moduleRoot()); err != nil {
		slog.Error("logging setup failed", "error", err)
		return 1
	}
	if err := bridge.Run(context.Background(), "snowbridge", os.Args[1:], factory, New()); err != nil {
		slog.Error("bridge stopped", "error", err)
		return 1
	}
	return 0
}

func bytesPtr(buf []byte) *C.uint8_t {
	if len(buf) == 0 {
		return nil
	}
	return (*C.uint8_t)(unsafe.Pointer(&buf[0]))
}

func (h *Host) DidOpenVideo(width, height uint32) {
	C.js_did_open_video(C.uint32_t(width), C.uint32_t(height))
}

func (h *Host) Blit(frame []byte) {
	C.js_blit(bytesPtr(frame), C.uint32_t(len(frame)))
}

func (h *Host) DidOpenAudio(sampleRate, sampleSize, channels uint32) {
	C.js_did_open_audio(C.uint32_t(sampleRate), C.uint32_t(sampleSize), C.uint32_t(channels))
}

func (h *Host) AudioBufferSize() int32 {
	return int32(C.js_audio_buffer_size())
}

func (h *Host) EnqueueAudio(buf []byte) {
	C.js_enqueue_audio(bytesPtr(buf), C.uint32_t(len(buf)))
}

// DiskOpen passes name as a C string. A name with an interior NUL cannot
// be represented and reports not found.
func (h *Host) DiskOpen(name string) int32 {
	if strings.IndexByte(name, 0) >= 0 {
		return -1
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int32(C.js_disk_open(cname))
}

func (h *Host) DiskClose(id int32) {
	C.js_disk_close(C.int32_t(id))
}

func (h *Host) DiskSize(id int32) float64 {
	return float64(C.js_disk_size(C.int32_t(id)))
}

func (h *Host) DiskRead(id int32, buf []byte, offset float64) float64 {
	return float64(C.js_disk_read(C.int32_t(id), bytesPtr(buf), C.double(offset), C.double(len(buf))))
}

func (h *Host) DiskWrite(id int32, buf []byte, offset float64) float64 {
	return float64(C.js_disk_write(C.int32_t(id), bytesPtr(buf), C.double(offset), C.double(len(buf))))
}

// ConsumeCdromName copies the worker-allocated string and frees it.
func (h *Host) ConsumeCdromName() string {
	ptr := C.js_consume_cdrom_name()
	if ptr == nil {
		return ""
	}
	defer C.js_free(unsafe.Pointer(ptr))
	return C.GoString(ptr)
}

func (h *Host) AcquireInputLock() int32 { return int32(C.js_acquire_input_lock()) }
func (h *Host) ReleaseInputLock()       { C.js_release_input_lock() }
func (h *Host) HasMousePosition() int32 { return int32(C.js_has_mouse_position()) }
func (h *Host) MouseX() int32           { return int32(C.js_get_mouse_x_position()) }
func (h *Host) MouseY() int32           { return int32(C.js_get_mouse_y_position()) }
func (h *Host) MouseDeltaX() int32      { return int32(C.js_get_mouse_delta_x()) }
func (h *Host) MouseDeltaY() int32      { return int32(C.js_get_mouse_delta_y()) }
func (h *Host) MouseButtonState() int32 { return int32(C.js_get_mouse_button_state()) }
func (h *Host) HasKeyEvent() int32      { return int32(C.js_has_key_event()) }
func (h *Host) KeyCode() int32          { return int32(C.js_get_key_code()) }
func (h *Host) KeyState() int32         { return int32(C.js_get_key_state()) }
func (h *Host) HasSpeedEvent() int32    { return int32(C.js_has_speed_event()) }
func (h *Host) Speed() int32            { return int32(C.js_get_speed()) }

func (h *Host) SnapshotTakeKind() int32 {
	return int32(C.js_snapshot_take_kind())
}

func (h *Host) SnapshotTakeRequestID() uint32 {
	return uint32(C.js_snapshot_take_request_id())
}

func (h *Host) SnapshotState(requestID uint32) []byte {
	return h.snapshots.ReadLoad(requestID)
}

// SnapshotCompleteSave writes state where the worker expects it, then
// signals completion. A write failure is reported as an error completion.
func (h *Host) SnapshotCompleteSave(requestID uint32, state []byte) {
	if err := h.snapshots.WriteSave(requestID, state); err != nil {
		h.SnapshotCompleteError(requestID, hostif.SanitizeMessage(err.Error()))
		return
	}
	C.js_snapshot_complete_save(C.uint32_t(requestID))
}

func (h *Host) SnapshotCompleteLoaded(requestID uint32) {
	C.js_snapshot_complete_loaded(C.uint32_t(requestID))
}

// SnapshotCompleteError drops a message that cannot be encoded.
func (h *Host) SnapshotCompleteError(requestID uint32, message string) {
	if strings.IndexByte(message, 0) >= 0 {
		return
	}
	cmsg := C.CString(message)
	defer C.free(unsafe.Pointer(cmsg))
	C.js_snapshot_complete_error(C.uint32_t(requestID), cmsg)
}

func (h *Host) Sleep(secs float64) {
	C.js_sleep(C.double(secs))
}

func (h *Host) CheckPeriodicTasks() {
	C.js_check_for_periodic_tasks()
}

func moduleRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(thisFile))
}
