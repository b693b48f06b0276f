package mlog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	maxLogSize    = 100 * 1024 * 1024 // 100 MB
	rotateCheckTs = 30 * time.Second
)

type loggerImp struct {
	path   string
	file   *os.File
	ll     *log.Logger
	buff   chan string
	level  Level
	stdOut bool
}

func newDefaultLogger(logpath, logName string, level Level, stdOut bool) (*loggerImp, error) {
	// 默认使用当前路径
	if len(logpath) == 0 {
		logpath = "."
	}
	if len(logName) == 0 {
		logName = "timekit"
	}
	logfile, err := openFile(filepath.Join(logpath, logName+".log"))
	if err != nil {
		return nil, err
	}
	fileLogger := log.New(logfile, "", log.Ldate|log.Lmicroseconds)
	if stdOut {
		log.SetFlags(log.Ldate | log.Lmicroseconds)
	}
	me := &loggerImp{
		path:   logpath,
		ll:     fileLogger,
		file:   logfile,
		buff:   make(chan string, 0x10000),
		level:  level,
		stdOut: stdOut,
	}
	return me, nil
}

func (me *loggerImp) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("log recover error %v\n", r)
			}
			me.file.Close()
			wg.Done()
		}()

		timer := time.NewTimer(rotateCheckTs)
		for {
			select {
			case <-ctx.Done():
				// 退出前把缓冲写完
				for {
					select {
					case str := <-me.buff:
						me.output(str)
					default:
						return
					}
				}
			case str := <-me.buff:
				me.output(str)
			case <-timer.C:
				me.rotateIfNeeded()
				timer.Reset(rotateCheckTs)
			}
		}
	}()
}

func (me *loggerImp) output(str string) {
	if me.stdOut {
		log.Println(str)
	}
	me.ll.Println(str)
}

func (me *loggerImp) rotateIfNeeded() {
	st, err := os.Stat(me.file.Name())
	if err != nil {
		log.Println("mlog stat error", err)
		return
	}
	if st.Size() <= maxLogSize {
		return
	}
	file, err := rotateLogFile(me.file.Name())
	if err != nil {
		log.Println("mlog rotate error", err)
		return
	}
	me.ll.SetOutput(file)
	me.file.Close()
	me.file = file
}

func openFile(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

func rotateLogFile(name string) (*os.File, error) {
	backup := name + "." + time.Now().Format("20060102_150405")
	if err := os.Rename(name, backup); err != nil {
		return nil, err
	}
	return openFile(name)
}

func (me *loggerImp) IsLevelEnabled(level Level) bool {
	return me.level >= level
}

func (me *loggerImp) Log(level Level, args ...any) {
	if me.IsLevelEnabled(level) {
		me.buff <- (getLevelTag(level) + fmt.Sprint(args...))
	}
}

func (me *loggerImp) Logf(level Level, format string, args ...any) {
	if me.IsLevelEnabled(level) {
		me.buff <- (getLevelTag(level) + fmt.Sprintf(format, args...))
	}
}

func (me *loggerImp) Debug(args ...any) {
	me.Log(DebugLevel, args...)
}

func (me *loggerImp) Debugf(format string, args ...any) {
	me.Logf(DebugLevel, format, args...)
}

func (me *loggerImp) Info(args ...any) {
	me.Log(InfoLevel, args...)
}

func (me *loggerImp) Infof(format string, args ...any) {
	me.Logf(InfoLevel, format, args...)
}

func (me *loggerImp) Warn(args ...any) {
	me.Log(WarnLevel, args...)
}

func (me *loggerImp) Warnf(format string, args ...any) {
	me.Logf(WarnLevel, format, args...)
}

func (me *loggerImp) Error(args ...any) {
	me.Log(ErrorLevel, args...)
}

func (me *loggerImp) Errorf(format string, args ...any) {
	me.Logf(ErrorLevel, format, args...)
}

func (me *loggerImp) Fatal(args ...any) {
	me.Log(FatalLevel, args...)
	time.Sleep(time.Second)
	os.Exit(1)
}

func (me *loggerImp) Fatalf(format string, args ...any) {
	me.Logf(FatalLevel, format, args...)
	time.Sleep(time.Second)
	os.Exit(1)
}
