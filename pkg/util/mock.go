package util

import "github.com/influxdata/influxdb-client-go/api/write"

// MockWriteAPI is the default metrics sink when no InfluxDB is configured.
// It satisfies api.WriteAPI and drops everything.
type MockWriteAPI struct{}

func (m *MockWriteAPI) WriteRecord(line string)   {}
func (m *MockWriteAPI) WritePoint(p *write.Point) {}
func (m *MockWriteAPI) Flush()                    {}
func (m *MockWriteAPI) Close()                    {}
func (m *MockWriteAPI) Errors() <-chan error      { return nil }
