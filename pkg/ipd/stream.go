package ipd

import "go.uber.org/zap"

// Sentinel is the database reference that marks the end of the record stream.
const Sentinel uint16 = 0xFFFF

// readRecords reads records until end of input or the sentinel and appends
// each one to the database its reference points at.
func readRecords(c *cursor, f *File, log *zap.SugaredLogger) error {
	c.stage = StageRecordStream

	for c.remaining() > 0 {
		at := c.pos()
		ref, err := c.u16LE("database reference")
		if err != nil {
			return err
		}
		if ref == Sentinel {
			log.Debugw("record stream sentinel", "offset", at, "trailing", c.remaining())
			return nil
		}

		length, err := c.u32LE("record length")
		if err != nil {
			return err
		}
		payloadAt := c.pos()
		payload, err := c.take(int(length), "record payload")
		if err != nil {
			return err
		}

		db := f.at(int(ref))
		if db == nil {
			return malformed(StageRecordStream, at, "database reference %d out of range (%d databases)", ref, len(f.order))
		}

		rec, err := decodeRecord(payload, payloadAt)
		if err != nil {
			return err
		}
		db.records = append(db.records, rec)
	}

	return nil
}
