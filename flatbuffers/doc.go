// Package flatbuffers provides facilities to read and write flatbuffers
// objects.
//
// A buffer is one contiguous, relocatable blob:
//
//	[u32 root offset][objects, vtables, strings and vectors, each aligned to its natural size]
//
// Every reference inside it is an unsigned offset relative to the place it is
// stored, so the blob can be copied or mapped anywhere. Builder writes the
// blob back-to-front, children before parents, and shares identical vtables.
// Table reads it lazily without copying, checking every access against the
// buffer length.
//
// 简单来说，对象的字段通过 vtable 间接寻址：
//
//   - object 起始处保存一个 SOffsetT，指向该 object 的 vtable；
//   - vtable 中第 i 个字段的偏移为 0 表示字段缺省，读取时返回 schema 声明的默认值；
//   - 标量等于默认值时 Builder 不写入该字段（default elision），读写两侧必须使用同一个默认值。
package flatbuffers
