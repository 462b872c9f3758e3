package hivetest

// ComputerGUID is the on-disk form of {20D04FE0-3AEA-1069-A2D8-08002B30309D}.
var ComputerGUID = []byte{
	0xe0, 0x4f, 0xd0, 0x20, 0xea, 0x3a, 0x69, 0x10,
	0xa2, 0xd8, 0x08, 0x00, 0x2b, 0x30, 0x30, 0x9d,
}

// folderExtOffset is where FolderItem places the extension block.
const folderExtOffset = 0x20

// ThisPCItem returns a root-folder shell item pointing at My Computer.
func ThisPCItem() []byte {
	return append([]byte{0x14, 0x00, 0x1f, 0x50}, ComputerGUID...)
}

// DriveItem returns a volume shell item labelled "<letter>:".
func DriveItem(letter byte) []byte {
	rec := make([]byte, 0x19)
	rec[0] = 0x19
	rec[2] = 0x2f
	copy(rec[3:], []byte{letter, ':', '\\'})
	return rec
}

// FolderItem returns a file-entry shell item of type typ carrying name and
// the three packed FAT timestamps.
func FolderItem(typ byte, name string, modified, created, accessed [4]byte) []byte {
	rec := make([]byte, folderExtOffset+46)
	rec[0] = byte(len(rec))
	rec[2] = typ
	copy(rec[8:], modified[:])
	copy(rec[folderExtOffset+8:], created[:])
	copy(rec[folderExtOffset+12:], accessed[:])
	rec = append(rec, UTF16(name)...)
	rec = append(rec, 0, 0)
	// six trailing bytes; the extension offset sits four from the end
	return append(rec, 0, 0, folderExtOffset, 0, 0, 0)
}
