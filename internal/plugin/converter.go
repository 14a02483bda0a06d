package plugin

import (
	"context"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Converter hosts a WASM vendor-converter plugin. A plugin takes a raw
// vendor export (JSON string) and returns the equivalent upload-schema
// JSON. Strings cross the guest boundary null-terminated through the
// plugin's alloc/dealloc exports.
type Converter struct {
	runtime wazero.Runtime
	module  api.Module
	ptr     uint32 // converter handle inside the guest
}

// NewConverter loads a converter plugin from a .wasm file.
func NewConverter(ctx context.Context, wasmPath string) (*Converter, error) {
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wasm file: %w", err)
	}

	r := wazero.NewRuntime(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile wasm module: %w", err)
	}

	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithStdout(os.Stdout).WithStderr(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate wasm module: %w", err)
	}

	fn := mod.ExportedFunction("converter_new")
	if fn == nil {
		return nil, fmt.Errorf("converter_new not exported")
	}

	results, err := fn.Call(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create converter: %w", err)
	}

	return &Converter{
		runtime: r,
		module:  mod,
		ptr:     uint32(results[0]),
	}, nil
}

// Close frees the guest converter and shuts down the runtime.
func (c *Converter) Close(ctx context.Context) error {
	if c.ptr != 0 {
		fn := c.module.ExportedFunction("converter_free")
		if fn != nil {
			_, _ = fn.Call(ctx, uint64(c.ptr))
		}
	}
	return c.runtime.Close(ctx)
}

// ConvertWhoop converts a Whoop export JSON into upload-schema JSON.
func (c *Converter) ConvertWhoop(ctx context.Context, json, deviceID string) (string, error) {
	return c.callConvert(ctx, "converter_convert_whoop", json, deviceID)
}

// ConvertGarmin converts a Garmin export JSON into upload-schema JSON.
func (c *Converter) ConvertGarmin(ctx context.Context, json, deviceID string) (string, error) {
	return c.callConvert(ctx, "converter_convert_garmin", json, deviceID)
}

func (c *Converter) callConvert(ctx context.Context, funcName string, json, deviceID string) (string, error) {
	jsonPtr, jsonLen, err := c.writeString(ctx, json)
	if err != nil {
		return "", err
	}
	defer c.dealloc(ctx, jsonPtr, jsonLen)

	devPtr, devLen, err := c.writeString(ctx, deviceID)
	if err != nil {
		return "", err
	}
	defer c.dealloc(ctx, devPtr, devLen)

	fn := c.module.ExportedFunction(funcName)
	if fn == nil {
		return "", fmt.Errorf("function %s not exported", funcName)
	}

	results, err := fn.Call(ctx, uint64(c.ptr), uint64(jsonPtr), uint64(devPtr))
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", funcName, err)
	}

	resPtr := uint32(results[0])
	if resPtr == 0 {
		return "", c.getLastError(ctx)
	}
	defer c.freeString(ctx, resPtr)

	return c.readString(resPtr)
}

func (c *Converter) writeString(ctx context.Context, s string) (uint32, uint32, error) {
	nullTerminated := s + "\x00"
	size := uint32(len(nullTerminated))

	fn := c.module.ExportedFunction("alloc")
	if fn == nil {
		return 0, 0, fmt.Errorf("alloc not exported")
	}

	results, err := fn.Call(ctx, uint64(size))
	if err != nil {
		return 0, 0, fmt.Errorf("alloc failed: %w", err)
	}

	ptr := uint32(results[0])
	if !c.module.Memory().Write(ptr, []byte(nullTerminated)) {
		return 0, 0, fmt.Errorf("failed to write string to memory")
	}

	return ptr, size, nil
}

func (c *Converter) dealloc(ctx context.Context, ptr, size uint32) {
	fn := c.module.ExportedFunction("dealloc")
	if fn != nil {
		_, _ = fn.Call(ctx, uint64(ptr), uint64(size))
	}
}

func (c *Converter) freeString(ctx context.Context, ptr uint32) {
	fn := c.module.ExportedFunction("converter_free_string")
	if fn != nil {
		_, _ = fn.Call(ctx, uint64(ptr))
	}
}

func (c *Converter) getLastError(ctx context.Context) error {
	fn := c.module.ExportedFunction("converter_last_error")
	if fn == nil {
		return fmt.Errorf("conversion failed (no error export)")
	}

	results, err := fn.Call(ctx)
	if err != nil {
		return fmt.Errorf("failed to get last error: %w", err)
	}

	ptr := uint32(results[0])
	if ptr == 0 {
		return fmt.Errorf("unknown error (no error message)")
	}

	s, err := c.readString(ptr)
	if err != nil {
		return fmt.Errorf("failed to read error message: %w", err)
	}
	return fmt.Errorf("converter error: %s", s)
}

func (c *Converter) readString(ptr uint32) (string, error) {
	mem := c.module.Memory()
	buf, ok := mem.Read(ptr, mem.Size()-ptr)
	if !ok {
		return "", fmt.Errorf("failed to read from memory at %d", ptr)
	}

	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}

	return "", fmt.Errorf("string not null-terminated")
}
