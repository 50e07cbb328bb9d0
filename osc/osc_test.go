package osc

import "strings"

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	return strings.Repeat(zero, i)
}

// makePacket creates a fake Message Packet.
func makePacket(addr string, args []string) Packet {
	msg := NewMessage(addr)
	for _, arg := range args {
		msg.Append(arg)
	}
	return msg
}

type testCase struct {
	name    string
	obj     Packet
	raw     []byte
	wantErr bool
}

var messageTestCases = []testCase{
	{
		"no_arguments",
		NewMessage("/"),
		[]byte("/" + nulls(3) + "," + nulls(3)),
		false,
	},
	{
		"s_new",
		NewMessage("/s_new", int32(1001), "freq", float32(440)),
		[]byte("/s_new" + nulls(2) + ",isf" + nulls(4) + "\x00\x00\x03\xe9" + "freq" + nulls(4) + "\x43\xdc\x00\x00"),
		false,
	},
	{
		"uint32_max",
		NewMessage("/", uint32(0xFFFFFFFF)),
		[]byte("/" + nulls(3) + ",u" + nulls(2) + "\xff\xff\xff\xff"),
		false,
	},
	{
		"blob",
		NewMessage("/b", []byte{1, 2, 3}),
		[]byte("/b" + nulls(2) + ",b" + nulls(2) + "\x00\x00\x00\x03" + "\x01\x02\x03" + nulls(1)),
		false,
	},
	{
		"empty_blob",
		NewMessage("/b", []byte{}),
		[]byte("/b" + nulls(2) + ",b" + nulls(2) + nulls(4)),
		false,
	},
	{
		"address_fills_word",
		NewMessage("/abc", "abcdefg"),
		[]byte("/abc" + nulls(4) + ",s" + nulls(2) + "abcdefg" + nulls(1)),
		false,
	},
	{
		"zero_length_payloads",
		NewMessage("/x", true, false, nil, Infinitum{}),
		[]byte("/x" + nulls(2) + ",TFNI" + nulls(3)),
		false,
	},
	{
		"array",
		NewMessage("/a", int32(1), []interface{}{"x", float32(0)}),
		[]byte("/a" + nulls(2) + ",i[sf]" + nulls(1) + "\x00\x00\x00\x01" + "x" + nulls(3) + nulls(4)),
		false,
	},
	{
		"nested_empty_array",
		NewMessage("/a", []interface{}{[]interface{}{}}),
		[]byte("/a" + nulls(2) + ",[[]]" + nulls(2)),
		false,
	},
	{
		"64_bit_types",
		NewMessage("/t", int64(-1), float64(1), Immediate),
		[]byte("/t" + nulls(2) + ",hdt" + nulls(4) + strings.Repeat("\xff", 8) + "\x3f\xf0" + nulls(6) + nulls(7) + "\x01"),
		false,
	},
	{
		"char_rgba_midi_symbol",
		NewMessage("/c", Char('A'), RGBA{1, 2, 3, 4}, MIDI{0, 0x90, 60, 127}, Symbol("sym")),
		[]byte("/c" + nulls(2) + ",crmS" + nulls(3) + nulls(3) + "A" + "\x01\x02\x03\x04" + "\x00\x90\x3c\x7f" + "sym" + nulls(1)),
		false,
	},
}

var bundleTestCases = []testCase{
	{
		"immediate_one_message",
		NewBundle(NewMessage("/test")),
		[]byte("#bundle" + nulls(1) + nulls(7) + "\x01" + "\x00\x00\x00\x0c" + "/test" + nulls(3) + "," + nulls(3)),
		false,
	},
	{
		"empty",
		&Bundle{Timetag: 5},
		[]byte("#bundle" + nulls(1) + nulls(7) + "\x05"),
		false,
	},
	{
		"nested",
		&Bundle{Timetag: Immediate, Elements: []Packet{
			&Bundle{Timetag: 2, Elements: []Packet{NewMessage("/a")}},
			NewMessage("/b", int32(7)),
		}},
		[]byte("#bundle" + nulls(1) + nulls(7) + "\x01" +
			"\x00\x00\x00\x1c" + "#bundle" + nulls(1) + nulls(7) + "\x02" + "\x00\x00\x00\x08" + "/a" + nulls(2) + "," + nulls(3) +
			"\x00\x00\x00\x0c" + "/b" + nulls(2) + ",i" + nulls(2) + "\x00\x00\x00\x07"),
		false,
	},
}
