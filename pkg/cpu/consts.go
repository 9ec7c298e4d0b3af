package cpu

// Interrupt sources in priority order. A lower index wins.
const (
	intTRAP = iota
	intNMI
	intIRQ0
	intIRQ1
	intIRQ2
	intPRT0
	intPRT1
	intDMA0
	intDMA1
	intCSIO
	intASCI0
	intASCI1
	intCount
)

var intNames = [intCount]string{
	"TRAP", "NMI", "IRQ0", "IRQ1", "IRQ2", "PRT0", "PRT1",
	"DMA0", "DMA1", "CSIO", "ASCI0", "ASCI1",
}

// Line is an input pin that SetInput drives.
type Line int

const (
	LineIRQ0 Line = iota
	LineIRQ1
	LineIRQ2
	LineDREQ0
	LineDREQ1
	LineNMI
)

func (l Line) String() string {
	switch l {
	case LineIRQ0:
		return "IRQ0"
	case LineIRQ1:
		return "IRQ1"
	case LineIRQ2:
		return "IRQ2"
	case LineDREQ0:
		return "DREQ0"
	case LineDREQ1:
		return "DREQ1"
	case LineNMI:
		return "NMI"
	}
	return "?"
}

// IOLine bits of the IOLINES state word. Inputs and outputs share one word.
type IOLine uint32

const (
	IOCKA0    IOLine = 0x000001
	IOCKA1    IOLine = 0x000002
	IOCKS     IOLine = 0x000004
	IOCTS0    IOLine = 0x000100
	IOCTS1    IOLine = 0x000200
	IODCD0    IOLine = 0x000400
	IODREQ0   IOLine = 0x000800
	IODREQ1   IOLine = 0x001000
	IORXA0    IOLine = 0x002000
	IORXA1    IOLine = 0x004000
	IORXS     IOLine = 0x008000
	IORTS0    IOLine = 0x010000
	IOTEND0   IOLine = 0x020000
	IOTEND1   IOLine = 0x040000
	IOA18TOUT IOLine = 0x080000
	IOTXA0    IOLine = 0x100000
	IOTXA1    IOLine = 0x200000
	IOTXS     IOLine = 0x400000

	ioInputs = IOCKA0 | IOCKA1 | IOCKS | IOCTS0 | IOCTS1 | IODCD0 |
		IODREQ0 | IODREQ1 | IORXA0 | IORXA1 | IORXS
	ioLinesMask = 0xFFFFFF
)

// Internal register bits.
const (
	cntlaMPE    = 0x80
	cntlaRE     = 0x40
	cntlaTE     = 0x20
	cntlaRTS0   = 0x10
	cntlaCKA1D  = 0x10
	cntlaMPBREF = 0x08

	cntlbMPBT  = 0x80
	cntlbCTSPS = 0x20

	statRDRF  = 0x80
	statOVRN  = 0x40
	statPE    = 0x20
	statFE    = 0x10
	statRIE   = 0x08
	statDCD0  = 0x04
	statCTS1E = 0x04
	statTDRE  = 0x02
	statTIE   = 0x01

	cntrEF   = 0x80
	cntrEIE  = 0x40
	cntrRE   = 0x20
	cntrTE   = 0x10
	cntrMask = 0xF7

	tcrTIF1 = 0x80
	tcrTIF0 = 0x40
	tcrTIE1 = 0x20
	tcrTIE0 = 0x10
	tcrTDE1 = 0x02
	tcrTDE0 = 0x01

	asext0Mask  = 0x7F
	asext1Mask  = 0x1F
	asextBRKDET = 0x02
	cmrMask     = 0xC0
	sar0Mask    = 0x0FFFFF
	dar0Mask    = 0x0FFFFF
	mar1Mask    = 0x0FFFFF
	iar1Mask    = 0xCFFFFF
	dstatDE1    = 0x80
	dstatDE0    = 0x40
	dstatDWE1   = 0x20
	dstatDWE0   = 0x10
	dstatDIE1   = 0x08
	dstatDIE0   = 0x04
	dstatDME    = 0x01
	dstatMask   = 0xFD
	dmodeDM     = 0x30
	dmodeSM     = 0x0C
	dmodeMMOD   = 0x02
	dmodeMask   = 0x3E
	dcntlMWI    = 0xC0
	dcntlIWI    = 0x30
	dcntlDMS1   = 0x08
	dcntlDMS0   = 0x04
	dcntlDIM    = 0x03
	ilMask      = 0xE0
	itcTRAP     = 0x80
	itcUFO      = 0x40
	itcITE2     = 0x04
	itcITE1     = 0x02
	itcITE0     = 0x01
	itcMask     = 0xC7
	rcrMask     = 0xC3
	omcrM1TE    = 0x40
	omcrMask    = 0xE0
	iocrMask    = 0xE0
	iocrBase    = 0xC0
)

// Timer clocks are derived from the system clock divided by 20.
const timerDivider = 20
