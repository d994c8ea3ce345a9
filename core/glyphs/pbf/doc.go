/*
Package pbf reads and writes the protobuf glyph tile format used by map
renderers to fetch signed distance field glyphs in ranges of code points.

The schema is the one of the Mapbox "glyphs.proto":

	message glyph {
	    required uint32 id = 1;
	    optional bytes bitmap = 2;   // SDF with a 3 pixel border
	    required uint32 width = 3;
	    required uint32 height = 4;
	    required sint32 left = 5;
	    required sint32 top = 6;
	    required uint32 advance = 7;
	}
	message fontstack {
	    required string name = 1;
	    required string range = 2;
	    repeated glyph glyphs = 3;
	}
	message glyphs {
	    repeated fontstack stacks = 1;
	    extensions 16 to 8191;
	}

Encoding is done directly on the wire with protowire; there is no generated
code. Unknown fields and extensions are skipped when decoding.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package pbf
