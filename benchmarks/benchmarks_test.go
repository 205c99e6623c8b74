/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package benchmarks compares vectorjson's one-shot and streaming parse
// paths against encoding/json, jsoniter, and sonic, the same three-way
// comparison the teacher's own benchmarks/ module ran against
// minio/simdjson-go. The teacher's corpus (testdata/*.json.zst) isn't part
// of this module, so fixtures here are generated in-process instead of
// loaded from disk.
package benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"

	"github.com/vectorjson/vectorjson"
)

var (
	flatObjectFixture   = buildFlatObject(50)
	numberArrayFixture  = buildNumberArray(5000)
	nestedObjectFixture = buildNested(6, 4)
	escapedTextFixture  = buildEscapedStrings(200)
)

func buildFlatObject(n int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"field_%d":%d`, i, i*31)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func buildNumberArray(n int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d.%d", i, i%10)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func buildNested(depth, width int) []byte {
	var write func(d int) string
	write = func(d int) string {
		if d == 0 {
			return `"leaf"`
		}
		parts := make([]string, width)
		for i := 0; i < width; i++ {
			parts[i] = fmt.Sprintf(`"child_%d":%s`, i, write(d-1))
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return []byte(write(depth))
}

func buildEscapedStrings(n int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"line %d\nwith a \"quote\" and a tab\t"`, i)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func benchmarkEncodingJson(b *testing.B, data []byte) {
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	var v interface{}
	for i := 0; i < b.N; i++ {
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkJsoniter(b *testing.B, data []byte) {
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	cfg := jsoniter.ConfigCompatibleWithStandardLibrary
	var v interface{}
	for i := 0; i < b.N; i++ {
		if err := cfg.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkSonic(b *testing.B, data []byte) {
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	var v interface{}
	for i := 0; i < b.N; i++ {
		if err := sonic.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

// benchmarkVectorJSONOneShot feeds the whole fixture to Parse in a single
// call, the closest analogue to the other three libraries' all-at-once
// Unmarshal.
func benchmarkVectorJSONOneShot(b *testing.B, data []byte) {
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := vectorjson.Parse(data)
		if res.Status != vectorjson.StatusComplete {
			b.Fatal(res.Error)
		}
	}
}

// benchmarkVectorJSONStream feeds the fixture through a Parser in small
// chunks, exercising the incremental scan/classify/build/patch/dispatch
// path the other three libraries have no equivalent of.
func benchmarkVectorJSONStream(b *testing.B, data []byte) {
	const chunkSize = 256
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := vectorjson.NewParser()
		var status vectorjson.Status
		var err error
		for off := 0; off < len(data); off += chunkSize {
			end := off + chunkSize
			if end > len(data) {
				end = len(data)
			}
			status, err = p.Feed(data[off:end])
		}
		if status != vectorjson.StatusComplete {
			b.Fatal(err)
		}
		p.Destroy()
	}
}

func BenchmarkEncodingJsonFlatObject(b *testing.B)  { benchmarkEncodingJson(b, flatObjectFixture) }
func BenchmarkEncodingJsonNumberArray(b *testing.B) { benchmarkEncodingJson(b, numberArrayFixture) }
func BenchmarkEncodingJsonNested(b *testing.B)      { benchmarkEncodingJson(b, nestedObjectFixture) }
func BenchmarkEncodingJsonEscapedText(b *testing.B) { benchmarkEncodingJson(b, escapedTextFixture) }

func BenchmarkJsoniterFlatObject(b *testing.B)  { benchmarkJsoniter(b, flatObjectFixture) }
func BenchmarkJsoniterNumberArray(b *testing.B) { benchmarkJsoniter(b, numberArrayFixture) }
func BenchmarkJsoniterNested(b *testing.B)      { benchmarkJsoniter(b, nestedObjectFixture) }
func BenchmarkJsoniterEscapedText(b *testing.B) { benchmarkJsoniter(b, escapedTextFixture) }

func BenchmarkSonicFlatObject(b *testing.B)  { benchmarkSonic(b, flatObjectFixture) }
func BenchmarkSonicNumberArray(b *testing.B) { benchmarkSonic(b, numberArrayFixture) }
func BenchmarkSonicNested(b *testing.B)      { benchmarkSonic(b, nestedObjectFixture) }
func BenchmarkSonicEscapedText(b *testing.B) { benchmarkSonic(b, escapedTextFixture) }

func BenchmarkVectorJSONOneShotFlatObject(b *testing.B) {
	benchmarkVectorJSONOneShot(b, flatObjectFixture)
}
func BenchmarkVectorJSONOneShotNumberArray(b *testing.B) {
	benchmarkVectorJSONOneShot(b, numberArrayFixture)
}
func BenchmarkVectorJSONOneShotNested(b *testing.B) {
	benchmarkVectorJSONOneShot(b, nestedObjectFixture)
}
func BenchmarkVectorJSONOneShotEscapedText(b *testing.B) {
	benchmarkVectorJSONOneShot(b, escapedTextFixture)
}

func BenchmarkVectorJSONStreamFlatObject(b *testing.B) {
	benchmarkVectorJSONStream(b, flatObjectFixture)
}
func BenchmarkVectorJSONStreamNumberArray(b *testing.B) {
	benchmarkVectorJSONStream(b, numberArrayFixture)
}
func BenchmarkVectorJSONStreamNested(b *testing.B) {
	benchmarkVectorJSONStream(b, nestedObjectFixture)
}
func BenchmarkVectorJSONStreamEscapedText(b *testing.B) {
	benchmarkVectorJSONStream(b, escapedTextFixture)
}
