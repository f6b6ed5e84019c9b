package sheetfdw

var SerialToTime = serialToTime
