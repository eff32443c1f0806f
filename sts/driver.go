package sts

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Driver is the generic shell that parameterizes, pipelines, and executes
// an arbitrary kernel over a stream of bitstreams, modeled on the
// teacher's sim/simulator.go event loop: pull the next unit of work,
// advance state, record results, repeat until exhausted (spec.md §2,
// §4.5 "Execution").
type Driver struct {
	Common CommonParameters
	Kernel Kernel
	Report *Report
}

// NewDriver constructs a Driver, validating common and Init'ing kernel
// with params. Init failure is InvalidParameter and fatal (spec.md §7).
func NewDriver(common CommonParameters, kernel Kernel, params *ParameterSet, header ReportHeader) (*Driver, error) {
	if err := common.Validate(); err != nil {
		return nil, err
	}
	bufferBytes, err := kernel.Init(common, params)
	if err != nil {
		return nil, err
	}
	expected := common.BitstreamLength / 8
	if bufferBytes != expected {
		return nil, NewError(InvalidParameter, "kernel requested buffer size %d, expected %d (n/8)", bufferBytes, expected)
	}

	info := TestInfo{Name: params.TestName, Suite: "NIST STS"}
	if infoKernel, ok := kernel.(Info); ok {
		info = infoKernel.TestInfo()
	}
	report := NewReport(info, *params, header)
	kernel.BindReport(report)

	return &Driver{Common: common, Kernel: kernel, Report: report}, nil
}

// Run pulls bitstreams from source until BitstreamCount have been
// processed or the source is exhausted, dispatching Execute for each and
// finalizing the kernel and the aggregate report at the end.
//
// An early-exhausted source is an IOError (spec.md §7): no partial report
// is returned. Each bitstream is read from source in this loop and handed
// to one Execute call. Kernels that run an sts.Pool with threadCount > 1
// keep the bitstream queued until the pool fills or Finalize flushes it.
func (d *Driver) Run(source Source) (*Report, error) {
	logrus.Infof("starting run: kernel=%s bitstreams=%d length=%d alpha=%v",
		d.Report.Info.Name, d.Common.BitstreamCount, d.Common.BitstreamLength, d.Common.SignificanceLevel)

	processed := 0
	for processed < d.Common.BitstreamCount {
		bitstream, err := source.Next(d.Common.BitstreamLength)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, NewError(IOError, "bitstream source exhausted after %d of %d bitstreams", processed, d.Common.BitstreamCount)
			}
			return nil, Wrap(IOError, err, "reading bitstream %d", processed+1)
		}
		if err := d.Kernel.Execute(bitstream); err != nil {
			if KindOf(err) == NumericDomain || KindOf(err) == StructuralPrerequisite {
				logrus.Warnf("bitstream %d: %v", bitstream.ID, err)
			} else {
				return nil, err
			}
		}
		processed++
	}

	if err := d.Kernel.Finalize(processed); err != nil {
		return nil, err
	}
	AggregateReport(d.Report, d.Common.SignificanceLevel, skipZeroForKernel(d.Report.Info.Name))
	logrus.Infof("run complete: kernel=%s bitstreams=%d", d.Report.Info.Name, processed)
	return d.Report, nil
}

// skipZeroForKernel reports whether P-values of exactly 0.0 should be
// excluded from the uniformity population, per spec.md §4.5 ("skip zeros
// for random-excursions variants"). Only Random-Excursions-Variant is
// treated this way. That kernel records an erfc P-value for every state,
// visited or not, so a P-value of exactly 0.0 arises only when erfc
// underflows.
func skipZeroForKernel(name string) bool {
	return name == "Random Excursions Variant"
}
