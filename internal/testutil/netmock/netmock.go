// Package netmock contains gomock mocks of network interfaces.
package netmock

//go:generate go tool mockgen -destination=conn.go -package=netmock net Conn,PacketConn
//go:generate go tool mockgen -destination=writer.go -package=netmock io Writer
