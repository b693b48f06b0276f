package app

import (
	"log"
	"os"
	"os/signal"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/balyuf/timekit/mlog"
)

// 进程全局状态
const (
	AppStateNone = iota // 未开始或已停止
	AppStateInit        // 正在初始化中
	AppStateRun         // 正在运行中
	AppStateStop        // 正在停止中
)

// 单例
var defaultApp = new(App)

type Module interface {
	OnInit() error // 初始化
	Destroy()      // 销毁
	Run()          // 启动，阻塞到Destroy
	Name() string  // 名字
}

type mod struct {
	mi Module
}

// DefaultApp 默认单例
func DefaultApp() *App {
	return defaultApp
}

// App 中的 modules 在启动之后不能变更
type App struct {
	mods  []*mod
	state int32
	sig   chan os.Signal
	wg    *sync.WaitGroup
}

func (app *App) setState(s int32) {
	atomic.StoreInt32(&app.state, s)
}

func (app *App) GetState() int32 {
	return atomic.LoadInt32(&app.state)
}

func (app *App) start(mods ...Module) {
	// 单个app不能启动两次
	if app.GetState() != AppStateNone || len(app.mods) != 0 {
		log.Fatal("app mods cannot start twice")
	}
	if len(mods) == 0 {
		return
	}
	mlog.Info("app starting up")
	for _, mi := range mods {
		app.mods = append(app.mods, &mod{mi: mi})
	}
	app.setState(AppStateInit)
	// 模块按注册顺序初始化
	for _, m := range app.mods {
		if err := m.mi.OnInit(); err != nil {
			log.Fatalf("module %v init error %v", reflect.TypeOf(m.mi), err)
		}
	}
	app.wg = &sync.WaitGroup{}
	for _, m := range app.mods {
		app.wg.Add(1)
		go run(m, app.wg)
	}
	app.setState(AppStateRun)
	mlog.Info("app started")
}

func (app *App) stop() {
	if app.GetState() == AppStateStop {
		return
	}
	mlog.Info("app stop begin")
	app.setState(AppStateStop)
	// 先进后出
	for i := len(app.mods) - 1; i >= 0; i-- {
		m := app.mods[i]
		mlog.Infof("app stop module %s", m.mi.Name())
		destroy(m)
	}
	app.wg.Wait()
	app.setState(AppStateNone)
	mlog.Info("app stopped")
}

func run(m *mod, wg *sync.WaitGroup) {
	defer wg.Done()
	m.mi.Run()
}

func destroy(m *mod) {
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("%s module destroy panic: %v\n%s", m.mi.Name(), r, debug.Stack())
		}
	}()
	m.mi.Destroy()
}

// Run 启动所有模块并等待退出信号
func (app *App) Run(mods ...Module) {
	app.start(mods...)
	app.sig = make(chan os.Signal, 1)
	signal.Notify(app.sig, syscall.SIGINT, syscall.SIGTERM)
	sig := <-app.sig
	mlog.Infof("app closing down (signal: %v)", sig)
	app.stop()
}

// Stop 主动触发退出
func (app *App) Stop() {
	app.sig <- syscall.SIGTERM
}
