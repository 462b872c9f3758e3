// Package shellbags rebuilds the folder-browsing history ("shell bags") a
// user profile records under the BagMRU key of UsrClass.dat.
//
// Analyze locates the "This PC" item among the top-level BagMRU entries,
// then the drive items below it, and from each drive walks the numbered
// subkeys, decoding every numbered value as a shell item. The result is a
// Tree whose nodes mirror the BagMRU key nesting. Flatten turns the tree
// into rows, one per folder with a decoded name:
//
//	tree, err := shellbags.AnalyzeFile("UsrClass.dat")
//	if err != nil {
//		return err
//	}
//	for _, row := range shellbags.Flatten(tree) {
//		fmt.Println(row.Key, row.Path, row.Modified)
//	}
//
// Malformed records never abort a run: an unrecognized or truncated shell
// item yields a node without metadata and an invalid timestamp renders as
// an empty string. Only setup failures (missing file, missing key, missing
// "This PC" item, unreadable hive structure) are returned as errors.
package shellbags
