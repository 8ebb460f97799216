// Package serialization provides the persisted forms of finalized perceptron models.
//
// Two layers exist:
//
// Records are the logical encoding of one model, one schema per storage
// layout (see perceptron.proto). They are encoded with the protobuf wire
// format, so any protobuf runtime can read them:
//
//	DenseRecord        {metadata, inner_size, repeated Row table = 3}
//	SparseDenseRecord  {metadata, inner_size, map<int64, Row> table = 4}
//	SparseRecord       {metadata, inner_size, map<int64, LabelRow> table = 5}
//
// Each layout stores its table under its own field number, so a record of
// one layout is rejected by the decoder of another (ErrWrongVariant).
//
// The .pctx file container wraps one record for storage on disk:
//
//	Format Structure:
//	  [4 bytes: Magic "PCTX"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [4 bytes: Reserved]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [8 bytes: Payload Size (uint64 LE)]
//	  [32 bytes: SHA-256 of payload]
//	  [Header: JSON]
//	  [Payload: record bytes]
//
// Example usage:
//
//	payload, err := record.MarshalBinary()
//	if err != nil {
//	    return err
//	}
//	writer, err := serialization.NewWriter("model.pctx")
//	if err != nil {
//	    return err
//	}
//	defer writer.Close()
//	err = writer.Write(serialization.Header{ModelType: record.ModelType()}, payload)
package serialization
