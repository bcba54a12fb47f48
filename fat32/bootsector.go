package fat32

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/noxer/bytewriter"

	fserrors "github.com/nqwku/fat32emu/errors"
)

// BootSector is the decoded BPB + EBPB contents of sector 0; the geometry
// derived from it lives in Geometry. Field names follow the Microsoft FAT32
// naming used by the spec this volume implements.
type BootSector struct {
	JmpBoot           [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	FATSize16         uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32

	// FAT32-specific fields (EBPB).
	FATSize32        uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfoSector     uint16
	BackupBootSector uint16
	DriveNumber      uint8
	NTReserved       uint8
	BootSignature    uint8
	VolumeID         uint32
	VolumeLabel      [11]byte
	FileSystemType   [8]byte
}

// Geometry holds the volume measurements derived once at mount time (spec.md
// §3, "Volume geometry").
type Geometry struct {
	BytesPerSector    uint32
	SectorsPerCluster uint32
	BytesPerCluster   uint32
	ReservedSectors   uint32
	FATCount          uint32
	FATSectors        uint32
	FirstDataSector   SectorID
	DataClusterCount  uint32
	RootCluster       ClusterID
	DirentsPerCluster int
}

const (
	offJmpBoot           = 0
	offOEMName           = 3
	offBytesPerSector    = 11
	offSectorsPerCluster = 13
	offReservedSectors   = 14
	offNumFATs           = 16
	offRootEntryCount    = 17
	offTotalSectors16    = 19
	offMedia             = 21
	offFATSize16         = 22
	offSectorsPerTrack   = 24
	offNumHeads          = 26
	offHiddenSectors     = 28
	offTotalSectors32    = 32
	offFATSize32         = 36
	offExtFlags          = 40
	offFSVersion         = 42
	offRootCluster       = 44
	offFSInfoSector      = 48
	offBackupBootSector  = 50
	offReserved12        = 52
	offDriveNumber       = 64
	offNTReserved        = 65
	offBootSignature     = 66
	offVolumeID          = 67
	offVolumeLabel       = 71
	offFileSystemType    = 82
	offBootCode          = 90
	offTrailSignature    = 510
)

// DecodeBootSector parses 512 bytes read from sector 0 into a BootSector.
func DecodeBootSector(data []byte) (*BootSector, error) {
	if len(data) != blockdevSectorSize {
		return nil, fserrors.InvalidArgument.WithMessage(
			fmt.Sprintf("boot sector must be %d bytes, got %d", blockdevSectorSize, len(data)))
	}

	bs := &BootSector{}
	copy(bs.JmpBoot[:], data[offJmpBoot:offJmpBoot+3])
	copy(bs.OEMName[:], data[offOEMName:offOEMName+8])
	bs.BytesPerSector = binary.LittleEndian.Uint16(data[offBytesPerSector:])
	bs.SectorsPerCluster = data[offSectorsPerCluster]
	bs.ReservedSectors = binary.LittleEndian.Uint16(data[offReservedSectors:])
	bs.NumFATs = data[offNumFATs]
	bs.RootEntryCount = binary.LittleEndian.Uint16(data[offRootEntryCount:])
	bs.TotalSectors16 = binary.LittleEndian.Uint16(data[offTotalSectors16:])
	bs.Media = data[offMedia]
	bs.FATSize16 = binary.LittleEndian.Uint16(data[offFATSize16:])
	bs.SectorsPerTrack = binary.LittleEndian.Uint16(data[offSectorsPerTrack:])
	bs.NumHeads = binary.LittleEndian.Uint16(data[offNumHeads:])
	bs.HiddenSectors = binary.LittleEndian.Uint32(data[offHiddenSectors:])
	bs.TotalSectors32 = binary.LittleEndian.Uint32(data[offTotalSectors32:])
	bs.FATSize32 = binary.LittleEndian.Uint32(data[offFATSize32:])
	bs.ExtFlags = binary.LittleEndian.Uint16(data[offExtFlags:])
	bs.FSVersion = binary.LittleEndian.Uint16(data[offFSVersion:])
	bs.RootCluster = binary.LittleEndian.Uint32(data[offRootCluster:])
	bs.FSInfoSector = binary.LittleEndian.Uint16(data[offFSInfoSector:])
	bs.BackupBootSector = binary.LittleEndian.Uint16(data[offBackupBootSector:])
	bs.DriveNumber = data[offDriveNumber]
	bs.NTReserved = data[offNTReserved]
	bs.BootSignature = data[offBootSignature]
	bs.VolumeID = binary.LittleEndian.Uint32(data[offVolumeID:])
	copy(bs.VolumeLabel[:], data[offVolumeLabel:offVolumeLabel+11])
	copy(bs.FileSystemType[:], data[offFileSystemType:offFileSystemType+8])

	return bs, nil
}

// EncodeBootSector serializes bs into a fresh 512-byte sector image, writing
// fields through a bytewriter.Writer in their on-disk order rather than
// poking a shared buffer at scattered offsets.
func EncodeBootSector(bs *BootSector) []byte {
	buf := make([]byte, blockdevSectorSize)
	for i := range buf {
		buf[i] = 0
	}

	w := bytewriter.New(buf)
	w.Write(bs.JmpBoot[:])
	w.Write(bs.OEMName[:])
	writeU16(w, bs.BytesPerSector)
	w.Write([]byte{bs.SectorsPerCluster})
	writeU16(w, bs.ReservedSectors)
	w.Write([]byte{bs.NumFATs})
	writeU16(w, bs.RootEntryCount)
	writeU16(w, bs.TotalSectors16)
	w.Write([]byte{bs.Media})
	writeU16(w, bs.FATSize16)
	writeU16(w, bs.SectorsPerTrack)
	writeU16(w, bs.NumHeads)
	writeU32(w, bs.HiddenSectors)
	writeU32(w, bs.TotalSectors32)
	writeU32(w, bs.FATSize32)
	writeU16(w, bs.ExtFlags)
	writeU16(w, bs.FSVersion)
	writeU32(w, bs.RootCluster)
	writeU16(w, bs.FSInfoSector)
	writeU16(w, bs.BackupBootSector)
	w.Write(make([]byte, 12)) // BPB_Reserved
	w.Write([]byte{bs.DriveNumber, bs.NTReserved, bs.BootSignature})
	writeU32(w, bs.VolumeID)
	w.Write(bs.VolumeLabel[:])
	w.Write(bs.FileSystemType[:])

	// Boot code region is left zeroed; only the trailing signature matters.
	buf[offTrailSignature] = 0x55
	buf[offTrailSignature+1] = 0xAA
	return buf
}

func writeU16(w *bytewriter.Writer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.Write(tmp[:])
}

func writeU32(w *bytewriter.Writer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.Write(tmp[:])
}

// IsFAT32 applies the recognition criteria from spec.md §4.1, collecting
// every violation with go-multierror so a CorruptFormat error can report all
// of them at once instead of bailing out on the first mismatch.
func IsFAT32(data []byte, bs *BootSector) error {
	var result *multierror.Error

	if len(data) < 512 || data[510] != 0x55 || data[511] != 0xAA {
		result = multierror.Append(result, fmt.Errorf("missing 0x55AA boot signature"))
	}
	if string(bs.FileSystemType[:]) != "FAT32   " {
		result = multierror.Append(result, fmt.Errorf("filesystem type label is not \"FAT32   \""))
	}
	if bs.BytesPerSector != 512 {
		result = multierror.Append(result, fmt.Errorf("bytes per sector is %d, want 512", bs.BytesPerSector))
	}
	if bs.SectorsPerCluster == 0 {
		result = multierror.Append(result, fmt.Errorf("sectors per cluster is 0"))
	}
	if bs.NumFATs == 0 {
		result = multierror.Append(result, fmt.Errorf("FAT count is 0"))
	}
	if bs.FATSize32 == 0 {
		result = multierror.Append(result, fmt.Errorf("32-bit FAT size is 0"))
	}

	if result != nil {
		return fserrors.CorruptFormat.Wrap(result)
	}
	return nil
}

// DeriveGeometry computes the Geometry table from a validated FAT32 boot
// sector (spec.md §3).
func DeriveGeometry(bs *BootSector) Geometry {
	bytesPerCluster := uint32(bs.BytesPerSector) * uint32(bs.SectorsPerCluster)
	firstDataSector := SectorID(uint32(bs.ReservedSectors) + uint32(bs.NumFATs)*bs.FATSize32)
	totalSectors := bs.TotalSectors32
	dataSectors := totalSectors - uint32(firstDataSector)
	dataClusterCount := dataSectors / uint32(bs.SectorsPerCluster)

	return Geometry{
		BytesPerSector:    uint32(bs.BytesPerSector),
		SectorsPerCluster: uint32(bs.SectorsPerCluster),
		BytesPerCluster:   bytesPerCluster,
		ReservedSectors:   uint32(bs.ReservedSectors),
		FATCount:          uint32(bs.NumFATs),
		FATSectors:        bs.FATSize32,
		FirstDataSector:   firstDataSector,
		DataClusterCount:  dataClusterCount,
		RootCluster:       ClusterID(bs.RootCluster),
		DirentsPerCluster: int(bytesPerCluster) / DirentSize,
	}
}

// computeFATSize32 implements the two-pass FAT sizing iteration from
// spec.md §4.1. The second pass is required because accounting for the FAT
// region's own size changes how many sectors remain for data.
func computeFATSize32(totalSectors, reservedSectors uint32, numFATs, sectorsPerCluster uint32) uint32 {
	clusters := (totalSectors - reservedSectors) / sectorsPerCluster
	fatSectors := ceilDiv(clusters*4, 512)

	clusters = (totalSectors - reservedSectors - numFATs*fatSectors) / sectorsPerCluster
	fatSectors = ceilDiv(clusters*4, 512)

	return fatSectors
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// NewFormattedBootSector builds the deterministic boot sector spec.md §4.1
// prescribes for a freshly formatted volume of totalSectors sectors.
func NewFormattedBootSector(totalSectors uint32, now time.Time) *BootSector {
	const (
		reservedSectors   = 32
		numFATs           = 2
		sectorsPerCluster = 4
	)

	fatSize32 := computeFATSize32(totalSectors, reservedSectors, numFATs, sectorsPerCluster)

	bs := &BootSector{
		JmpBoot:           [3]byte{0xEB, 0x58, 0x90},
		SectorsPerCluster: sectorsPerCluster,
		ReservedSectors:   reservedSectors,
		NumFATs:           numFATs,
		Media:             0xF8,
		SectorsPerTrack:   63,
		NumHeads:          255,
		TotalSectors32:    totalSectors,
		FATSize32:         fatSize32,
		RootCluster:       uint32(RootDirCluster),
		FSInfoSector:      1,
		BackupBootSector:  6,
		DriveNumber:       0x80,
		BootSignature:     0x29,
		VolumeID:          uint32(now.Unix()),
	}
	copy(bs.OEMName[:], "MSWIN4.1")
	bs.BytesPerSector = 512
	for i := range bs.VolumeLabel {
		bs.VolumeLabel[i] = ' '
	}
	copy(bs.VolumeLabel[:], "NO NAME")
	copy(bs.FileSystemType[:], "FAT32   ")

	return bs
}

// blockdevSectorSize mirrors blockdev.SectorSize without importing that
// package here, keeping this file's only dependency on the codec's own
// assumptions about sector size.
const blockdevSectorSize = 512
