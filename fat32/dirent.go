package fat32

import (
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// DirEntry is the decoded form of one 32-byte on-disk directory entry
// (spec.md §3).
type DirEntry struct {
	ShortName        [11]byte
	Attributes       uint8
	NTReserved       uint8
	CreateTimeTenths uint8
	CreateTime       uint16
	CreateDate       uint16
	LastAccessDate   uint16
	FirstClusterHigh uint16
	WriteTime        uint16
	WriteDate        uint16
	FirstClusterLow  uint16
	FileSize         uint32
}

// Slot-state markers for a directory entry's first name byte (spec.md §3).
const (
	nameFreeTerminator = 0x00
	nameDeletedMarker  = 0xE5
)

// IsNeverUsed reports whether this slot has never held a live entry.
func (e *DirEntry) IsNeverUsed() bool {
	return e.ShortName[0] == nameFreeTerminator
}

// IsDeleted reports whether this slot held a live entry that was deleted.
func (e *DirEntry) IsDeleted() bool {
	return e.ShortName[0] == nameDeletedMarker
}

// IsFree reports whether this slot is available for a new entry — either
// never used, or previously used and freed.
func (e *DirEntry) IsFree() bool {
	return e.IsNeverUsed() || e.IsDeleted()
}

// IsDir reports whether the DIR attribute bit is set.
func (e *DirEntry) IsDir() bool {
	return e.Attributes&AttrDirectory != 0
}

// FirstCluster combines the high/low first-cluster fields.
func (e *DirEntry) FirstCluster() ClusterID {
	return ClusterID((uint32(e.FirstClusterHigh) << 16) | uint32(e.FirstClusterLow))
}

// SetFirstCluster splits cluster into its high/low on-disk fields.
func (e *DirEntry) SetFirstCluster(cluster ClusterID) {
	e.FirstClusterHigh = uint16(uint32(cluster) >> 16)
	e.FirstClusterLow = uint16(uint32(cluster) & 0xFFFF)
}

// Name reconstructs the display filename from the short-name field.
func (e *DirEntry) Name() string {
	return FromShortName(e.ShortName)
}

// DecodeDirEntry parses one 32-byte slot.
func DecodeDirEntry(data []byte) *DirEntry {
	e := &DirEntry{
		Attributes:       data[11],
		NTReserved:       data[12],
		CreateTimeTenths: data[13],
		CreateTime:       binary.LittleEndian.Uint16(data[14:]),
		CreateDate:       binary.LittleEndian.Uint16(data[16:]),
		LastAccessDate:   binary.LittleEndian.Uint16(data[18:]),
		FirstClusterHigh: binary.LittleEndian.Uint16(data[20:]),
		WriteTime:        binary.LittleEndian.Uint16(data[22:]),
		WriteDate:        binary.LittleEndian.Uint16(data[24:]),
		FirstClusterLow:  binary.LittleEndian.Uint16(data[26:]),
		FileSize:         binary.LittleEndian.Uint32(data[28:]),
	}
	copy(e.ShortName[:], data[0:11])
	return e
}

// EncodeDirEntry serializes e into a fresh 32-byte slot, writing fields
// through a bytewriter.Writer in on-disk order.
func EncodeDirEntry(e *DirEntry) []byte {
	buf := make([]byte, DirentSize)
	w := bytewriter.New(buf)

	w.Write(e.ShortName[:])
	w.Write([]byte{e.Attributes, e.NTReserved, e.CreateTimeTenths})

	var u16 [2]byte
	putU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(u16[:], v)
		w.Write(u16[:])
	}
	putU16(e.CreateTime)
	putU16(e.CreateDate)
	putU16(e.LastAccessDate)
	putU16(e.FirstClusterHigh)
	putU16(e.WriteTime)
	putU16(e.WriteDate)
	putU16(e.FirstClusterLow)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], e.FileSize)
	w.Write(u32[:])

	return buf
}

// fatDate packs a calendar date the way spec.md §3 requires:
// ((year-1980)<<9) | (month<<5) | day.
func fatDate(year int, month int, day int) uint16 {
	return uint16(((year - 1980) << 9) | (month << 5) | day)
}

// fatTime packs a time of day: (hour<<11)|(minute<<5)|(second/2).
func fatTime(hour, minute, second int) uint16 {
	return uint16((hour << 11) | (minute << 5) | (second / 2))
}
