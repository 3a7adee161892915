// Package leveldb implements the default tinymark storage engine on top of
// goleveldb.
//
// A store is a single LevelDB database. Each keyspace is a range of that
// database selected by a key prefix:
//
//	name ++ 0x00 ++ key        - record in keyspace "name"
//	                             data: packed record
//
//	0x00 ++ "VERSION"          - storage layout version
//	                             data: big endian uint32
//
// Because every prefix ends in 0x00, the records of one keyspace are
// contiguous and keep their ascending key order.
package leveldb
