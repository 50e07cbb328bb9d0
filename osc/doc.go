// Copyright 2013 - 2015 Sebastian Ruml <sebastian.ruml@gmail.com>
// Copyright 2021 - 2022 Mendel Greenberg <mendel@chabad360.me>

//Package osc encodes and decodes OpenSoundControl packets, and provides a
//small UDP client, server and dispatcher built on top of the codec.
//
//This implementation is based on the Open Sound Control 1.0 Specification (http://opensoundcontrol.org/spec-1_0.html)
//and the additional types of OSC 1.1.
//
//Features
//
//- Supports OSC messages with the following TypeTags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'S' (Symbol)
//	'b' ([]byte)
//	'u' (uint32, the full unsigned range)
//	'h' (int64)
//	'd' (float64)
//	't' (Timetag)
//	'c' (Char)
//	'r' (RGBA)
//	'm' (MIDI)
//	'T' (true)
//	'F' (false)
//	'N' (nil)
//	'I' (Infinitum)
//	'[' and ']' ([]interface{})
//
//- More tags can be added with RegisterArgumentCodec.
//
//- Supports OSC bundles, including nested bundles and TimeTags.
//
//- Address matching and dispatching.
//
//Packets
//
//The unit of transmission of OSC is an OSC Packet. Any application that sends OSC Packets is an OSC Client;
//any application that receives OSC Packets is an OSC Server.
//
//An OSC packet consists of its contents, a contiguous block of binary data.
//The size of an OSC packet is always 32-bit aligned.
//
//OSC packets come in two flavors:
//
//OSC Messages: An OSC message consists of an OSC address pattern and  zero or more OSC arguments.
//
//OSC Bundles: An OSC Bundle consists of an OSC Timetag, followed by zero or more OSC bundle elements.
//Each bundle element can be another OSC bundle (note this recursive definition: a bundle may contain bundles) or OSC message.
//
//Decoding never panics on malformed input. Errors are *ParseError values carrying the byte offset
//of the problem; compare their kind with errors.Is against ErrTruncatedInput, ErrInvalidLength,
//ErrInvalidAddress, ErrUnknownArgumentType and ErrMalformedBundleMarker.
//
//Usage
//
//Encoding and decoding:
//  msg := osc.NewMessage("/s_new", int32(1001), "freq", float32(440))
//  data, err := msg.MarshalBinary()
//  ...
//  packet, err := osc.ParsePacket(data)
//
//OSC client example:
//  client, err := osc.Dial("localhost:8765")
//  msg := osc.NewMessage("/osc/address")
//  msg.Append(int32(111))
//  msg.Append(true)
//  msg.Append("hello")
//  client.Send(msg)
//
//OSC server example:
//  d := &osc.Dispatcher{}
//  d.AddMethodFunc("/message/address", func(msg *osc.Message) {
//      fmt.Println(msg)
//  })
//
//  server := &osc.Server{
//      Addr:    "127.0.0.1:8765",
//      Handler: d.Dispatch,
//  }
//  server.ListenAndServe(ctx)
package osc
