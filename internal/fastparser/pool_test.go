package fastparser

import (
	"sync"
	"testing"
	"unsafe"
)

// TestFieldPoolBasic tests basic field pool functionality
func TestFieldPoolBasic(t *testing.T) {
	fields := getFieldSlice()

	if len(fields) != 0 {
		t.Errorf("Expected initial length 0, got %d", len(fields))
	}
	if cap(fields) < 8 {
		t.Errorf("Expected capacity >= 8, got %d", cap(fields))
	}

	fields = append(fields, "a", "b", "c")
	putFieldSlice(fields)
}

// TestPutFieldSlice_ClearsReferences tests that pooled slices drop their strings
func TestPutFieldSlice_ClearsReferences(t *testing.T) {
	fields := getFieldSlice()
	fields = append(fields, "x", "y")
	putFieldSlice(fields)

	for i, s := range fields[:2] {
		if s != "" {
			t.Errorf("fields[%d] = %q after put, want empty", i, s)
		}
	}
}

// TestBufferPoolBasic tests basic buffer pool functionality
func TestBufferPoolBasic(t *testing.T) {
	buf := getBuffer()

	if len(buf) != 0 {
		t.Errorf("Expected initial length 0, got %d", len(buf))
	}
	if cap(buf) < 64 {
		t.Errorf("Expected capacity >= 64, got %d", cap(buf))
	}

	buf = append(buf, "hello"...)
	putBuffer(buf)

	// A reused buffer comes back empty.
	if again := getBuffer(); len(again) != 0 {
		t.Errorf("Expected reused buffer length 0, got %d", len(again))
	}
}

// TestPutLargeCapacity tests that oversized scratch space is not pooled
func TestPutLargeCapacity(t *testing.T) {
	putFieldSlice(make([]string, 0, 4096))
	putBuffer(make([]byte, 0, 1<<20))

	if fields := getFieldSlice(); cap(fields) > 1024 {
		t.Errorf("oversized field slice was pooled: cap %d", cap(fields))
	}
	if buf := getBuffer(); cap(buf) > 64*1024 {
		t.Errorf("oversized buffer was pooled: cap %d", cap(buf))
	}
}

// TestPoolConcurrent tests concurrent pool access through the parser
func TestPoolConcurrent(t *testing.T) {
	const workers = 10
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := Parse([]byte("\"a\nb\",c\r\nd,e"))
				if len(got) != 2 || got[0][0] != "\"a\rb\"" || got[1][1] != "e" {
					t.Errorf("Worker %d: unexpected result %q", id, got)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

// TestUnsafeStringNoAlloc tests that unsafeString shares the byte array
func TestUnsafeStringNoAlloc(t *testing.T) {
	data := []byte("test data for no allocation")

	str := unsafeString(data)
	if str != "test data for no allocation" {
		t.Fatalf("unsafeString() = %q", str)
	}

	if unsafe.Pointer(&data[0]) != unsafe.Pointer(unsafe.StringData(str)) {
		t.Error("unsafeString copied its input")
	}
}

// TestParse_AliasesInput tests that rows without line ends share memory with the input
func TestParse_AliasesInput(t *testing.T) {
	data := []byte("abc,def")
	got := Parse(data)

	if unsafe.Pointer(&data[0]) != unsafe.Pointer(unsafe.StringData(got[0][0])) {
		t.Error("column of a plain row was copied")
	}
}
