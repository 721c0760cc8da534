package gesture

import "github.com/ayusman/mudra/internal/detector"

// The tables are intentionally separate: the same pose means different
// things per application (index+middle is a click for the cursor and
// RIGHT for the arrow keys).

// CursorTable drives cursor movement and clicking.
var CursorTable = Table{
	{Pattern: MustPattern("x10xx"), Label: LabelPoint},
	{Pattern: MustPattern("x11xx"), Label: LabelPinchClick, Pinch: &Pair{A: detector.IndexTip, B: detector.MiddleTip}},
}

// ArrowTable maps single poses to arrow keys.
var ArrowTable = Table{
	{Pattern: MustPattern("01000"), Label: LabelSwipeUp},
	{Pattern: MustPattern("00100"), Label: LabelSwipeDown},
	{Pattern: MustPattern("01100"), Label: LabelSwipeRight},
	{Pattern: MustPattern("11110"), Label: LabelSwipeLeft},
}

// VolumeTable measures the thumb-index pinch for every visible hand.
var VolumeTable = Table{
	{Pattern: MustPattern("xxxxx"), Label: LabelPinchVolume, Pinch: &Pair{A: detector.ThumbTip, B: detector.IndexTip}},
}
